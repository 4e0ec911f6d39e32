package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/crypto/bcrypt"

	"weighin/internal/adapters/http/middleware"
	participantStore "weighin/internal/adapters/storage/participant"
	"weighin/internal/application/orchestrators"
	"weighin/internal/application/projections"
	"weighin/internal/domain/challenge"
	"weighin/internal/domain/weight"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// generateParticipantID creates a time-based integer ID, matching the IDs
// the tracker has always handed out.
func generateParticipantID() int64 {
	return timeNow().UnixNano()
}

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// parseDate parses a civil date in YYYY-MM-DD form.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation("2006-01-02", s, time.UTC)
}

// todayParam reads an optional ?date= override, used by tests and by the
// admin to preview past standings. Absent means now.
func todayParam(r *http.Request) (time.Time, error) {
	return parseDate(r.URL.Query().Get("date"))
}

func projectionDeps() projections.GetDashboardDeps {
	return projections.GetDashboardDeps{
		ParticipantStore: stores.ParticipantStore,
		WeightStore:      stores.WeightStore,
		ConfigStore:      stores.ConfigStore,
	}
}

// handleGetDashboard handles GET /api/dashboard
func handleGetDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	today, err := todayParam(r)
	if err != nil {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}

	result, err := projections.QueryGetDashboard(r.Context(), projections.GetDashboardQuery{Today: today}, projectionDeps())
	if err != nil {
		internalError(w, err)
		return
	}

	// Percentages cross the wire rounded; ranking already happened on the
	// raw values.
	type rowDTO struct {
		projections.LeaderboardRow
		Percent    float64
		WeightLost float64
	}
	rows := make([]rowDTO, 0, len(result.Leaderboard))
	for _, row := range result.Leaderboard {
		rows = append(rows, rowDTO{
			LeaderboardRow: row,
			Percent:        challenge.Round1(row.Percent),
			WeightLost:     challenge.Round1(row.WeightLost),
		})
	}

	writeJSON(w, map[string]any{
		"Stats":            result.Stats,
		"Leaderboard":      rows,
		"AnnouncementHTML": renderMarkdown(result.Announcement),
		"Config": map[string]any{
			"RegistrationStart": result.Config.RegistrationStart.Format("2006-01-02"),
			"RegistrationEnd":   result.Config.RegistrationEnd.Format("2006-01-02"),
			"DurationDays":      result.Config.DurationDays,
			"Currency":          result.Config.Currency,
			"PrizeContribution": result.Config.PrizeContribution,
		},
		"IsAdmin": middleware.IsAdmin(r.Context()),
	})
}

// handleGetStats handles GET /api/stats
func handleGetStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	today, err := todayParam(r)
	if err != nil {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}

	result, err := projections.QueryGetChallengeStats(r.Context(), projections.GetChallengeStatsQuery{Today: today}, projections.GetChallengeStatsDeps(projectionDeps()))
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, result)
}

// handleParticipants handles GET (list) and POST (register) on /api/participants.
func handleParticipants(w http.ResponseWriter, r *http.Request) {
	if r.Method == "GET" {
		handleListParticipants(w, r)
		return
	}
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		Name        string
		StartWeight float64
		JoinDate    string
	}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		body.Name = r.FormValue("Name")
		body.JoinDate = r.FormValue("JoinDate")
		if v := r.FormValue("StartWeight"); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				http.Error(w, "invalid start weight", http.StatusBadRequest)
				return
			}
			body.StartWeight = f
		}
	} else {
		if err := strictDecode(r, &body); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
	}

	joinDate, err := parseDate(body.JoinDate)
	if err != nil {
		http.Error(w, "invalid join date", http.StatusBadRequest)
		return
	}

	id, err := orchestrators.ExecuteRegisterParticipant(r.Context(), orchestrators.RegisterParticipantInput{
		Name:        body.Name,
		StartWeight: body.StartWeight,
		JoinDate:    joinDate,
	}, orchestrators.RegisterParticipantDeps{
		ParticipantStore: stores.ParticipantStore,
		WeightStore:      stores.WeightStore,
		ConfigStore:      stores.ConfigStore,
		GenerateID:       generateParticipantID,
		Now:              timeNow,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusCreated)
	writeJSON(w, map[string]int64{"ID": id})
}

func handleListParticipants(w http.ResponseWriter, r *http.Request) {
	filter := participantStore.ListFilter{Status: r.URL.Query().Get("status")}
	list, err := stores.ParticipantStore.List(r.Context(), filter)
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, map[string]any{"Participants": list})
}

// handleEditParticipant handles POST /api/participants/edit
func handleEditParticipant(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		ID          int64
		Name        string
		StartWeight *float64
		JoinDate    string
		Status      string
	}
	if err := strictDecode(r, &body); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	joinDate, err := parseDate(body.JoinDate)
	if err != nil {
		http.Error(w, "invalid join date", http.StatusBadRequest)
		return
	}

	input := orchestrators.EditParticipantInput{
		ID:          body.ID,
		Name:        body.Name,
		StartWeight: -1,
		JoinDate:    joinDate,
		Status:      body.Status,
	}
	if body.StartWeight != nil {
		input.StartWeight = *body.StartWeight
	}

	if err := orchestrators.ExecuteEditParticipant(r.Context(), input, orchestrators.EditParticipantDeps{
		ParticipantStore: stores.ParticipantStore,
		WeightStore:      stores.WeightStore,
		ConfigStore:      stores.ConfigStore,
		Now:              timeNow,
	}); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleDeleteParticipant handles POST /api/participants/delete
func handleDeleteParticipant(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		ID int64
	}
	if err := strictDecode(r, &body); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	if err := orchestrators.ExecuteDeleteParticipant(r.Context(), orchestrators.DeleteParticipantInput{ID: body.ID}, orchestrators.DeleteParticipantDeps{
		ParticipantStore: stores.ParticipantStore,
		WeightStore:      stores.WeightStore,
	}); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleGetEntryDay handles GET /api/entry-day?date=YYYY-MM-DD
func handleGetEntryDay(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	date, err := parseDate(r.URL.Query().Get("date"))
	if err != nil {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}

	result, err := projections.QueryGetEntryDay(r.Context(), projections.GetEntryDayQuery{Date: date}, projections.GetEntryDayDeps(projectionDeps()))
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, result)
}

// handleGetSeries handles GET /api/series?participant_id=X&kind=weight&all_days=1
func handleGetSeries(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	participantID, err := strconv.ParseInt(r.URL.Query().Get("participant_id"), 10, 64)
	if err != nil {
		http.Error(w, "participant_id is required", http.StatusBadRequest)
		return
	}
	kind := r.URL.Query().Get("kind")
	if kind == "" {
		kind = projections.SeriesWeight
	}
	today, err := todayParam(r)
	if err != nil {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}

	result, err := projections.QueryGetSeries(r.Context(), projections.GetSeriesQuery{
		ParticipantID: participantID,
		Kind:          kind,
		AllDays:       r.URL.Query().Get("all_days") == "1",
		Today:         today,
	}, projections.GetSeriesDeps(projectionDeps()))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	labels := make([]string, len(result.Days))
	for i, d := range result.Days {
		labels[i] = fmt.Sprintf("День %d", d)
	}
	writeJSON(w, map[string]any{
		"ParticipantID": result.ParticipantID,
		"Kind":          result.Kind,
		"Labels":        labels,
		"Values":        result.Values,
	})
}

// handleRecordWeight handles POST /api/weights
func handleRecordWeight(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		ParticipantID int64
		Date          string
		Weight        float64
	}
	if err := strictDecode(r, &body); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	date, err := parseDate(body.Date)
	if err != nil {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}
	if date.IsZero() {
		date = weight.DateOf(timeNow())
	}

	if err := orchestrators.ExecuteRecordWeight(r.Context(), orchestrators.RecordWeightInput{
		ParticipantID: body.ParticipantID,
		Date:          date,
		Weight:        body.Weight,
	}, recordWeightDeps()); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleRecordFinalWeight handles POST /api/weights/final
func handleRecordFinalWeight(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		ParticipantID int64
		Weight        float64
	}
	if err := strictDecode(r, &body); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	if err := orchestrators.ExecuteRecordFinalWeight(r.Context(), orchestrators.RecordFinalWeightInput{
		ParticipantID: body.ParticipantID,
		Weight:        body.Weight,
	}, recordWeightDeps()); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSetStartWeight handles POST /api/weights/start
func handleSetStartWeight(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		ParticipantID int64
		Weight        float64
	}
	if err := strictDecode(r, &body); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	if err := orchestrators.ExecuteSetStartWeight(r.Context(), orchestrators.SetStartWeightInput{
		ParticipantID: body.ParticipantID,
		Weight:        body.Weight,
	}, recordWeightDeps()); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func recordWeightDeps() orchestrators.RecordWeightDeps {
	return orchestrators.RecordWeightDeps{
		ParticipantStore: stores.ParticipantStore,
		WeightStore:      stores.WeightStore,
		ConfigStore:      stores.ConfigStore,
		Now:              timeNow,
	}
}

// handleExportResults handles GET /api/export.csv
func handleExportResults(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	today, err := todayParam(r)
	if err != nil {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}

	out, err := orchestrators.ExecuteExportResults(r.Context(), orchestrators.ExportResultsInput{Today: today}, orchestrators.ExportResultsDeps{
		ParticipantStore: stores.ParticipantStore,
		WeightStore:      stores.WeightStore,
		ConfigStore:      stores.ConfigStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}

	slog.Info("export_generated", "request_id", out.RequestID, "filename", out.Filename, "bytes", len(out.Content))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", out.Filename))
	w.Write(out.Content)
}

// handleGetAnnouncement handles GET /api/announcement
func handleGetAnnouncement(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	cfg, err := stores.ConfigStore.Get(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, map[string]string{
		"Markdown": cfg.Announcement,
		"HTML":     renderMarkdown(cfg.Announcement),
	})
}

func renderMarkdown(md string) string {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return ""
	}
	return buf.String()
}

// handleAdminLogin handles POST /api/admin/login
func handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		Password string
	}
	if err := strictDecode(r, &body); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	if err := bcrypt.CompareHashAndPassword(adminPasswordHash, []byte(body.Password)); err != nil {
		slog.Warn("admin_login_failed", "ip", r.RemoteAddr)
		http.Error(w, "invalid password", http.StatusUnauthorized)
		return
	}

	token := sessions.Create()
	middleware.SetSessionCookie(w, token)
	slog.Info("admin_login", "ip", r.RemoteAddr)
	w.WriteHeader(http.StatusNoContent)
}

// handleAdminLogout handles POST /api/admin/logout
func handleAdminLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if token := middleware.SessionTokenFromRequest(r); token != "" {
		sessions.Delete(token)
	}
	middleware.ClearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// handleUpdateConfig handles POST /api/admin/config
func handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		RegistrationStart string
		RegistrationEnd   string
		DurationDays      int
		Currency          string
		PrizeContribution float64
		Announcement      string
	}
	if err := strictDecode(r, &body); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	start, err := parseDate(body.RegistrationStart)
	if err != nil {
		http.Error(w, "invalid registration start", http.StatusBadRequest)
		return
	}
	end, err := parseDate(body.RegistrationEnd)
	if err != nil {
		http.Error(w, "invalid registration end", http.StatusBadRequest)
		return
	}

	cfg := challenge.Config{
		RegistrationStart: start,
		RegistrationEnd:   end,
		DurationDays:      body.DurationDays,
		Currency:          body.Currency,
		PrizeContribution: body.PrizeContribution,
		Announcement:      body.Announcement,
	}
	if err := orchestrators.ExecuteUpdateConfig(r.Context(), orchestrators.UpdateConfigInput{Config: cfg}, orchestrators.UpdateConfigDeps{
		ConfigStore: stores.ConfigStore,
	}); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleEmailResults handles POST /api/admin/email-results
func handleEmailResults(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if emailSender == nil {
		http.Error(w, "email is not configured", http.StatusServiceUnavailable)
		return
	}

	var body struct {
		To      []string
		Subject string
	}
	if err := strictDecode(r, &body); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	to := body.To
	if len(to) == 0 {
		to = resultRecipients
	}

	id, err := orchestrators.ExecuteEmailResults(r.Context(), orchestrators.EmailResultsInput{
		To:      to,
		Subject: body.Subject,
	}, orchestrators.EmailResultsDeps{
		ParticipantStore: stores.ParticipantStore,
		WeightStore:      stores.WeightStore,
		ConfigStore:      stores.ConfigStore,
		EmailSender:      emailSender,
		FromAddress:      emailFromAddress,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, map[string]string{"MessageID": id})
}

// handleResetChallenge handles POST /api/admin/reset
func handleResetChallenge(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		Confirm string
	}
	if err := strictDecode(r, &body); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if body.Confirm != "RESET" {
		http.Error(w, "confirmation required", http.StatusBadRequest)
		return
	}

	if err := orchestrators.ExecuteResetChallenge(r.Context(), orchestrators.ResetChallengeDeps{
		ParticipantStore: stores.ParticipantStore,
		WeightStore:      stores.WeightStore,
		ConfigStore:      stores.ConfigStore,
	}); err != nil {
		internalError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleGetPerf handles GET /api/admin/perf
func handleGetPerf(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if perfCollector == nil {
		http.Error(w, "perf collection disabled", http.StatusServiceUnavailable)
		return
	}

	since := timeNow().Add(-15 * time.Minute)
	if v := r.URL.Query().Get("minutes"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			since = timeNow().Add(-time.Duration(n) * time.Minute)
		}
	}
	writeJSON(w, perfCollector.Snapshot(since, 10))
}
