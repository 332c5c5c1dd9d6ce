// Command eventfinder is a terminal client for the discovery API. On
// first run it walks the onboarding flow (city and category selection),
// stores the profile locally, then lists events or shows a detail view.
package main

import (
	"bufio"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"gopkg.in/yaml.v3"
)

// profile is the single local record kept per user.
type profile struct {
	ProfileID  string   `yaml:"profile_id"`
	City       string   `yaml:"city"`
	SegmentIDs []string `yaml:"segment_ids"`
	Onboarded  bool     `yaml:"onboarded"`
}

func main() {
	server := flag.String("server", "http://localhost:8080", "discovery API base URL")
	profilePath := flag.String("profile", defaultProfilePath(), "path to the local profile file")
	keyword := flag.String("q", "", "keyword filter")
	sortKey := flag.String("sort", "", "sort key (date_asc, date_desc, name_asc, name_desc, price_asc, price_desc)")
	limit := flag.Int("limit", 25, "max events to list")
	show := flag.String("show", "", "show the detail view for one event ID")
	onboard := flag.Bool("onboard", false, "redo the onboarding flow")
	flag.Parse()

	client := &apiClient{base: strings.TrimRight(*server, "/"), http: &http.Client{Timeout: 30 * time.Second}}

	prof, err := loadProfile(*profilePath)
	if err != nil {
		fatalf("load profile: %v", err)
	}
	if prof == nil || !prof.Onboarded || *onboard {
		prof, err = runOnboarding(client, prof)
		if err != nil {
			fatalf("onboarding: %v", err)
		}
		if err := saveProfile(*profilePath, *prof); err != nil {
			fatalf("save profile: %v", err)
		}
		fmt.Printf("Saved preferences for %s.\n\n", prof.City)
	}

	if *show != "" {
		detail, err := client.getEvent(*show)
		if err != nil {
			fatalf("get event: %v", err)
		}
		printDetail(detail)
		return
	}

	events, err := client.listEvents(listParams{
		City:       prof.City,
		SegmentIDs: prof.SegmentIDs,
		Keyword:    *keyword,
		Sort:       *sortKey,
		Limit:      *limit,
	})
	if err != nil {
		fatalf("list events: %v", err)
	}
	printTable(events)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "eventfinder: "+format+"\n", args...)
	os.Exit(1)
}

func defaultProfilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "eventfinder-profile.yaml"
	}
	return filepath.Join(home, ".config", "eventfinder", "profile.yaml")
}

// loadProfile returns nil without error when no profile exists yet.
func loadProfile(path string) (*profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var p profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &p, nil
}

// saveProfile writes the record atomically: temp file in the same
// directory, then rename.
func saveProfile(path string, p profile) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".profile-*.yaml")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// runOnboarding collects the city and category selection, registers the
// preferences with the server, and returns the completed profile.
func runOnboarding(client *apiClient, existing *profile) (*profile, error) {
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("Welcome to EventFinder. Let's set up your preferences.")
	fmt.Print("Which city are you in? ")
	city, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, err
	}
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, fmt.Errorf("a city is required")
	}

	segments, err := client.listSegments()
	if err != nil {
		return nil, fmt.Errorf("fetch categories: %w", err)
	}

	fmt.Println("\nPick your categories (comma-separated numbers, empty for all):")
	for i, s := range segments {
		fmt.Printf("  %d. %s\n", i+1, s.Name)
	}
	fmt.Print("> ")
	line, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, err
	}

	var segmentIDs []string
	for _, field := range strings.Split(strings.TrimSpace(line), ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		n, err := strconv.Atoi(field)
		if err != nil || n < 1 || n > len(segments) {
			return nil, fmt.Errorf("invalid selection %q", field)
		}
		segmentIDs = append(segmentIDs, segments[n-1].ID)
	}

	prof := &profile{City: city, SegmentIDs: segmentIDs, Onboarded: true}
	if existing != nil && existing.ProfileID != "" {
		prof.ProfileID = existing.ProfileID
	} else {
		prof.ProfileID = newUUID()
	}

	if err := client.putPreferences(*prof); err != nil {
		return nil, fmt.Errorf("save preferences: %w", err)
	}
	return prof, nil
}

func printTable(events []eventSummary) {
	if len(events) == 0 {
		fmt.Println("No upcoming events found.")
		return
	}

	headers := []string{"ID", "WHEN", "NAME", "VENUE", "PRICE"}
	rows := make([][]string, 0, len(events))
	for _, ev := range events {
		rows = append(rows, []string{
			shortID(ev.ID),
			formatWhen(ev),
			runewidth.Truncate(ev.Name, 40, "…"),
			runewidth.Truncate(ev.VenueName, 28, "…"),
			formatPrice(ev),
		})
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	printRow(headers, widths)
	sep := make([]string, len(widths))
	for i, w := range widths {
		sep[i] = strings.Repeat("-", w)
	}
	printRow(sep, widths)
	for _, row := range rows {
		printRow(row, widths)
	}
	fmt.Printf("\n%d events. Use -show <id> for details.\n", len(rows))
}

func printRow(cells []string, widths []int) {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		parts[i] = runewidth.FillRight(cell, widths[i])
	}
	fmt.Println(strings.TrimRight(strings.Join(parts, "  "), " "))
}

func printDetail(d eventDetail) {
	fmt.Println(d.Name)
	fmt.Println(strings.Repeat("=", runewidth.StringWidth(d.Name)))
	fmt.Printf("When:     %s\n", formatWhen(d.eventSummary))
	if d.Segment != "" {
		genre := d.Segment
		if d.Genre != "" {
			genre += " / " + d.Genre
		}
		fmt.Printf("Category: %s\n", genre)
	}
	if d.Venue.Name != "" {
		fmt.Printf("Venue:    %s\n", d.Venue.Name)
		addr := joinNonEmpty(", ", d.Venue.Address, d.Venue.City, d.Venue.State, d.Venue.PostalCode, d.Venue.Country)
		if addr != "" {
			fmt.Printf("Address:  %s\n", addr)
		}
	}
	fmt.Printf("Status:   %s\n", d.Status)
	if d.PriceMin != nil && d.PriceMax != nil {
		fmt.Printf("Price:    %s\n", formatPrice(d.eventSummary))
	}
	if d.MapURL != "" {
		fmt.Printf("Map:      %s\n", d.MapURL)
	}
	if d.URL != "" {
		fmt.Printf("Tickets:  %s\n", d.URL)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatWhen(ev eventSummary) string {
	if ev.DateTBA || ev.StartsAt == nil {
		return "TBA"
	}
	if ev.TimeTBA {
		return ev.StartsAt.Format("Mon Jan 2 2006")
	}
	return ev.StartsAt.Format("Mon Jan 2 2006 15:04")
}

func formatPrice(ev eventSummary) string {
	if ev.PriceMin == nil || ev.PriceMax == nil {
		return "-"
	}
	if *ev.PriceMin == *ev.PriceMax {
		return fmt.Sprintf("%.2f %s", *ev.PriceMin, ev.Currency)
	}
	return fmt.Sprintf("%.2f-%.2f %s", *ev.PriceMin, *ev.PriceMax, ev.Currency)
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

// --- API client ---

type apiClient struct {
	base string
	http *http.Client
}

type segment struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type eventSummary struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Segment   string     `json:"segment"`
	Genre     string     `json:"genre"`
	StartsAt  *time.Time `json:"starts_at"`
	DateTBA   bool       `json:"date_tba"`
	TimeTBA   bool       `json:"time_tba"`
	Status    string     `json:"status"`
	VenueName string     `json:"venue_name"`
	City      string     `json:"city"`
	PriceMin  *float64   `json:"price_min"`
	PriceMax  *float64   `json:"price_max"`
	Currency  string     `json:"currency"`
}

type eventDetail struct {
	eventSummary
	URL   string `json:"url"`
	Venue struct {
		Name       string `json:"name"`
		Address    string `json:"address"`
		City       string `json:"city"`
		State      string `json:"state"`
		Country    string `json:"country"`
		PostalCode string `json:"postal_code"`
	} `json:"venue"`
	MapURL string `json:"map_url"`
}

type listParams struct {
	City       string
	SegmentIDs []string
	Keyword    string
	Sort       string
	Limit      int
}

func (c *apiClient) listSegments() ([]segment, error) {
	var out []segment
	if err := c.getJSON("/segments", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *apiClient) listEvents(p listParams) ([]eventSummary, error) {
	params := url.Values{}
	params.Set("city", p.City)
	if len(p.SegmentIDs) > 0 {
		params.Set("segments", strings.Join(p.SegmentIDs, ","))
	}
	if p.Keyword != "" {
		params.Set("q", p.Keyword)
	}
	if p.Sort != "" {
		params.Set("sort", p.Sort)
	}
	if p.Limit > 0 {
		params.Set("limit", strconv.Itoa(p.Limit))
	}

	var out struct {
		Events []eventSummary `json:"events"`
	}
	if err := c.getJSON("/events?"+params.Encode(), &out); err != nil {
		return nil, err
	}
	return out.Events, nil
}

func (c *apiClient) getEvent(id string) (eventDetail, error) {
	var out eventDetail
	err := c.getJSON("/events/"+url.PathEscape(id), &out)
	return out, err
}

func (c *apiClient) putPreferences(p profile) error {
	body, err := json.Marshal(map[string]any{
		"city":        p.City,
		"segment_ids": p.SegmentIDs,
		"onboarded":   p.Onboarded,
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPut, c.base+"/profiles/"+url.PathEscape(p.ProfileID)+"/preferences", strings.NewReader(string(body)))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}
	return nil
}

func (c *apiClient) getJSON(path string, out any) error {
	resp, err := c.http.Get(c.base + path)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func apiError(resp *http.Response) error {
	var payload struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Error != "" {
		return fmt.Errorf("server: %s (%s)", payload.Error, payload.Code)
	}
	return fmt.Errorf("server returned status %d", resp.StatusCode)
}

func newUUID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return ""
	}
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80
	return fmt.Sprintf(
		"%s-%s-%s-%s-%s",
		hex.EncodeToString(b[0:4]),
		hex.EncodeToString(b[4:6]),
		hex.EncodeToString(b[6:8]),
		hex.EncodeToString(b[8:10]),
		hex.EncodeToString(b[10:16]),
	)
}
