// Command backend_compare replays read-only API calls against two running
// deployments (for example the file and postgres storage drivers seeded from
// the same data) and reports responses that differ.
package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"reflect"
	"strings"
	"time"
)

type target struct {
	Method   string `json:"method"`
	Path     string `json:"path"`
	Critical bool   `json:"critical"`
}

type targetFile struct {
	Targets []target `json:"targets"`
}

var defaultTargets = []target{
	{Method: http.MethodGet, Path: "/api/auth/me", Critical: true},
	{Method: http.MethodGet, Path: "/api/users", Critical: true},
	{Method: http.MethodGet, Path: "/api/attendance/all", Critical: true},
	{Method: http.MethodGet, Path: "/api/leaves/pending", Critical: true},
	{Method: http.MethodGet, Path: "/api/dashboard/stats", Critical: true},
	{Method: http.MethodGet, Path: "/api/dashboard/attendance-chart?days=14"},
	{Method: http.MethodGet, Path: "/api/dashboard/employee-performance"},
	{Method: http.MethodGet, Path: "/api/dashboard/monthly-report"},
}

// Keys whose values legitimately differ between two deployments.
var volatileKeys = map[string]struct{}{
	"generated_at": {},
	"cache_hit":    {},
	"token":        {},
	"expires_at":   {},
}

type endpoint struct {
	base  string
	token string
}

type comparison struct {
	Target       target
	LeftStatus   int
	RightStatus  int
	StatusMatch  bool
	BodyMatch    bool
	Error        error
	LeftLatency  time.Duration
	RightLatency time.Duration
}

func main() {
	var (
		leftBase    string
		rightBase   string
		targetsPath string
		email       string
		password    string
		timeout     time.Duration
	)

	flag.StringVar(&leftBase, "left", "http://localhost:8000", "first deployment base URL")
	flag.StringVar(&rightBase, "right", "http://localhost:8001", "second deployment base URL")
	flag.StringVar(&targetsPath, "targets", "", "optional JSON targets file")
	flag.StringVar(&email, "email", "admin@example.com", "admin account used on both sides")
	flag.StringVar(&password, "password", "password", "admin password")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	targets := defaultTargets
	if targetsPath != "" {
		loaded, err := loadTargets(targetsPath)
		if err != nil {
			log.Fatalf("failed to load targets: %v", err)
		}
		targets = loaded
	}

	client := &http.Client{Timeout: timeout}
	left, err := login(client, leftBase, email, password)
	if err != nil {
		log.Fatalf("login to %s: %v", leftBase, err)
	}
	right, err := login(client, rightBase, email, password)
	if err != nil {
		log.Fatalf("login to %s: %v", rightBase, err)
	}

	var (
		results      []comparison
		breaking     int
		optionalDiff int
	)
	for _, t := range targets {
		res := compareTarget(client, left, right, t)
		if res.Error != nil || !res.StatusMatch || !res.BodyMatch {
			if t.Critical {
				breaking++
			} else {
				optionalDiff++
			}
		}
		results = append(results, res)
	}

	printReport(os.Stdout, results)
	fmt.Printf("Breaking diffs: %d, Optional diffs: %d\n", breaking, optionalDiff)
	if breaking > 0 {
		os.Exit(1)
	}
}

func loadTargets(path string) ([]target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file targetFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	if len(file.Targets) == 0 {
		return nil, fmt.Errorf("no targets defined in %s", path)
	}
	return file.Targets, nil
}

func login(client *http.Client, base, email, password string) (endpoint, error) {
	payload, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return endpoint{}, err
	}
	resp, err := client.Post(joinURL(base, "/api/auth/login"), "application/json", bytes.NewReader(payload))
	if err != nil {
		return endpoint{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return endpoint{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	var body struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return endpoint{}, fmt.Errorf("decode login response: %w", err)
	}
	if body.Data.Token == "" {
		return endpoint{}, errors.New("login response carried no token")
	}
	return endpoint{base: base, token: body.Data.Token}, nil
}

func compareTarget(client *http.Client, left, right endpoint, tgt target) comparison {
	res := comparison{Target: tgt}

	leftStatus, leftBody, leftLatency, err := fetch(client, left, tgt)
	if err != nil {
		res.Error = fmt.Errorf("%s: %w", left.base, err)
		return res
	}
	rightStatus, rightBody, rightLatency, err := fetch(client, right, tgt)
	if err != nil {
		res.Error = fmt.Errorf("%s: %w", right.base, err)
		return res
	}

	res.LeftStatus, res.RightStatus = leftStatus, rightStatus
	res.LeftLatency, res.RightLatency = leftLatency, rightLatency
	res.StatusMatch = leftStatus == rightStatus
	res.BodyMatch = bodiesEqual(leftBody, rightBody)
	return res
}

func fetch(client *http.Client, ep endpoint, tgt target) (int, []byte, time.Duration, error) {
	method := strings.ToUpper(strings.TrimSpace(tgt.Method))
	if method == "" {
		method = http.MethodGet
	}
	req, err := http.NewRequest(method, joinURL(ep.base, tgt.Path), nil)
	if err != nil {
		return 0, nil, 0, err
	}
	if ep.token != "" {
		req.Header.Set("Authorization", "Bearer "+ep.token)
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, 0, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, 0, fmt.Errorf("read body: %w", err)
	}
	return resp.StatusCode, body, time.Since(start), nil
}

func joinURL(base, path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.TrimRight(base, "/") + path
}

func bodiesEqual(a, b []byte) bool {
	if bytes.Equal(bytes.TrimSpace(a), bytes.TrimSpace(b)) {
		return true
	}

	var aj, bj interface{}
	if err := json.Unmarshal(a, &aj); err != nil {
		return false
	}
	if err := json.Unmarshal(b, &bj); err != nil {
		return false
	}
	return reflect.DeepEqual(normalize(aj), normalize(bj))
}

// normalize drops volatile keys and folds integral floats so 3 and 3.0 compare equal.
func normalize(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, child := range val {
			if _, skip := volatileKeys[k]; skip {
				continue
			}
			out[k] = normalize(child)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, child := range val {
			out[i] = normalize(child)
		}
		return out
	case float64:
		if val == float64(int64(val)) {
			return int64(val)
		}
	}
	return v
}

func printReport(w io.Writer, results []comparison) {
	fmt.Fprintln(w, "Backend Compare Report")
	fmt.Fprintln(w, "======================")
	for _, res := range results {
		status := "OK"
		if res.Error != nil {
			status = "ERROR"
		} else if !res.StatusMatch || !res.BodyMatch {
			status = "DIFF"
		}
		fmt.Fprintf(w, "[%s] %s %s\n", status, res.Target.Method, res.Target.Path)
		if res.Error != nil {
			fmt.Fprintf(w, "  Error: %v\n", res.Error)
			continue
		}
		fmt.Fprintf(w, "  Left: %d (%s) | Right: %d (%s)\n", res.LeftStatus, res.LeftLatency, res.RightStatus, res.RightLatency)
		fmt.Fprintf(w, "  Status match: %t | Body match: %t | Critical: %t\n", res.StatusMatch, res.BodyMatch, res.Target.Critical)
	}
}
