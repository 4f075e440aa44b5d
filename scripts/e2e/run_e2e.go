// Package main runs end-to-end dialog scenarios against a running API server
// through its simulator endpoints.
//
// Usage:
//
//	API_BASE_URL=http://localhost:8080 go run scripts/e2e/run_e2e.go               # runs all
//	API_BASE_URL=http://localhost:8080 go run scripts/e2e/run_e2e.go happy-path    # runs one
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

var apiBase string

type scenario struct {
	Name string
	Fn   func(t *T)
}

// T is a lightweight test context for a single scenario.
type T struct {
	passed int
	failed int
	name   string
}

func (t *T) check(name string, ok bool) {
	if ok {
		fmt.Printf("    PASS: %s\n", name)
		t.passed++
	} else {
		fmt.Printf("    FAIL: %s\n", name)
		t.failed++
	}
}

func (t *T) fatalf(format string, args ...interface{}) {
	fmt.Printf("    FATAL: "+format+"\n", args...)
	t.failed++
}

type turnRequest struct {
	Intent           string            `json:"intent"`
	InvocationSource string            `json:"invocationSource,omitempty"`
	Slots            map[string]string `json:"slots"`
}

type turnResponse struct {
	SessionState struct {
		SessionAttributes map[string]string `json:"sessionAttributes"`
		DialogAction      struct {
			Type         string `json:"type"`
			SlotToElicit string `json:"slotToElicit"`
		} `json:"dialogAction"`
		Intent struct {
			State string                     `json:"state"`
			Slots map[string]json.RawMessage `json:"slots"`
		} `json:"intent"`
	} `json:"sessionState"`
	Messages []struct {
		ContentType       string `json:"contentType"`
		Content           string `json:"content"`
		ImageResponseCard *struct {
			Buttons []struct {
				Text  string `json:"text"`
				Value string `json:"value"`
			} `json:"buttons"`
		} `json:"imageResponseCard"`
	} `json:"messages"`
}

func (r turnResponse) text() string {
	for _, m := range r.Messages {
		if m.ContentType == "PlainText" {
			return m.Content
		}
	}
	return ""
}

func (r turnResponse) buttons() int {
	for _, m := range r.Messages {
		if m.ImageResponseCard != nil {
			return len(m.ImageResponseCard.Buttons)
		}
	}
	return 0
}

func postJSON(path string, body interface{}, out interface{}) (int, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return 0, err
		}
	}
	resp, err := http.Post(apiBase+path, "application/json", &buf)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, err
	}
	if out != nil && resp.StatusCode < 300 {
		if err := json.Unmarshal(raw, out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode %s: %w", strings.TrimSpace(string(raw)), err)
		}
	}
	return resp.StatusCode, nil
}

func newSession(t *T) string {
	var created struct {
		SessionID string `json:"sessionId"`
	}
	if _, err := postJSON("/simulator/sessions", nil, &created); err != nil {
		t.fatalf("create session: %v", err)
		return ""
	}
	return created.SessionID
}

func turn(t *T, sessionID string, req turnRequest) (turnResponse, bool) {
	var resp turnResponse
	status, err := postJSON("/simulator/sessions/"+sessionID+"/turns", req, &resp)
	if err != nil {
		t.fatalf("turn: %v", err)
		return resp, false
	}
	if status != http.StatusOK {
		t.fatalf("turn returned %d", status)
		return resp, false
	}
	return resp, true
}

// nextWeekday returns the first date after today falling on day, as YYYY-MM-DD.
func nextWeekday(day time.Weekday) string {
	d := time.Now().AddDate(0, 0, 1)
	for d.Weekday() != day {
		d = d.AddDate(0, 0, 1)
	}
	return d.Format("2006-01-02")
}

func scenarioHappyPath(t *T) {
	id := newSession(t)
	if id == "" {
		return
	}
	date := nextWeekday(time.Wednesday)

	resp, ok := turn(t, id, turnRequest{Intent: "MakeAppointment"})
	if !ok {
		return
	}
	t.check("asks for appointment type", resp.SessionState.DialogAction.SlotToElicit == "AppointmentType")
	t.check("offers three appointment types", resp.buttons() == 3)

	resp, ok = turn(t, id, turnRequest{Intent: "MakeAppointment", Slots: map[string]string{"AppointmentType": "cleaning"}})
	if !ok {
		return
	}
	t.check("asks for date", resp.SessionState.DialogAction.SlotToElicit == "Date")
	t.check("offers five dates", resp.buttons() == 5)

	resp, ok = turn(t, id, turnRequest{Intent: "MakeAppointment", Slots: map[string]string{"AppointmentType": "cleaning", "Date": date}})
	if !ok {
		return
	}
	t.check("asks for time", resp.SessionState.DialogAction.SlotToElicit == "Time")
	t.check("lists Wednesday windows", strings.Contains(resp.text(), "10:00 a.m."))
	t.check("caches availability", strings.Contains(resp.SessionState.SessionAttributes["bookingMap"], date))

	resp, ok = turn(t, id, turnRequest{Intent: "MakeAppointment", Slots: map[string]string{"AppointmentType": "cleaning", "Date": date, "Time": "16:00"}})
	if !ok {
		return
	}
	t.check("delegates available time", resp.SessionState.DialogAction.Type == "Delegate")
	t.check("stores formatted time", resp.SessionState.SessionAttributes["formattedTime"] == "4:00 p.m.")

	resp, ok = turn(t, id, turnRequest{
		Intent:           "MakeAppointment",
		InvocationSource: "FulfillmentCodeHook",
		Slots:            map[string]string{"AppointmentType": "cleaning", "Date": date, "Time": "16:00"},
	})
	if !ok {
		return
	}
	t.check("closes fulfilled", resp.SessionState.DialogAction.Type == "Close" && resp.SessionState.Intent.State == "Fulfilled")
	t.check("removes booked window", !strings.Contains(resp.SessionState.SessionAttributes["bookingMap"], "16:00"))
}

func scenarioInvalidType(t *T) {
	id := newSession(t)
	if id == "" {
		return
	}
	resp, ok := turn(t, id, turnRequest{Intent: "MakeAppointment", Slots: map[string]string{"AppointmentType": "teeth pulling"}})
	if !ok {
		return
	}
	t.check("re-elicits appointment type", resp.SessionState.DialogAction.SlotToElicit == "AppointmentType")
	t.check("explains allowed types", strings.Contains(resp.text(), "cleaning"))
}

func scenarioWeekend(t *T) {
	id := newSession(t)
	if id == "" {
		return
	}
	resp, ok := turn(t, id, turnRequest{Intent: "MakeAppointment", Slots: map[string]string{
		"AppointmentType": "whitening",
		"Date":            nextWeekday(time.Saturday),
	}})
	if !ok {
		return
	}
	t.check("re-elicits date", resp.SessionState.DialogAction.SlotToElicit == "Date")
	t.check("mentions weekends", strings.Contains(resp.text(), "weekend"))
}

func scenarioNoAvailability(t *T) {
	id := newSession(t)
	if id == "" {
		return
	}
	resp, ok := turn(t, id, turnRequest{Intent: "MakeAppointment", Slots: map[string]string{
		"AppointmentType": "cleaning",
		"Date":            nextWeekday(time.Tuesday),
	}})
	if !ok {
		return
	}
	t.check("re-elicits date on empty day", resp.SessionState.DialogAction.SlotToElicit == "Date")
}

func scenarioOrderFlowers(t *T) {
	id := newSession(t)
	if id == "" {
		return
	}
	resp, ok := turn(t, id, turnRequest{Intent: "OrderFlowers", Slots: map[string]string{"FlowerType": "tulips"}})
	if !ok {
		return
	}
	t.check("delegates valid order", resp.SessionState.DialogAction.Type == "Delegate")
	t.check("prices by name length", resp.SessionState.SessionAttributes["Price"] == "30")
}

func scenarioUnsupportedIntent(t *T) {
	id := newSession(t)
	if id == "" {
		return
	}
	status, err := postJSON("/simulator/sessions/"+id+"/turns", turnRequest{Intent: "BookHotel"}, nil)
	if err != nil {
		t.fatalf("turn: %v", err)
		return
	}
	t.check("rejects unknown intent with 422", status == http.StatusUnprocessableEntity)
}

func main() {
	apiBase = strings.TrimRight(os.Getenv("API_BASE_URL"), "/")
	if apiBase == "" {
		apiBase = "http://localhost:8080"
	}

	scenarios := []scenario{
		{"happy-path", scenarioHappyPath},
		{"invalid-type", scenarioInvalidType},
		{"weekend", scenarioWeekend},
		{"no-availability", scenarioNoAvailability},
		{"order-flowers", scenarioOrderFlowers},
		{"unsupported-intent", scenarioUnsupportedIntent},
	}

	var only string
	if len(os.Args) > 1 {
		only = os.Args[1]
	}

	totalPassed, totalFailed := 0, 0
	for _, sc := range scenarios {
		if only != "" && sc.Name != only {
			continue
		}
		fmt.Printf("=== %s\n", sc.Name)
		t := &T{name: sc.Name}
		sc.Fn(t)
		totalPassed += t.passed
		totalFailed += t.failed
	}

	fmt.Printf("\n%d passed, %d failed\n", totalPassed, totalFailed)
	if totalFailed > 0 {
		os.Exit(1)
	}
}
