package cli

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func signIn(t *testing.T, run func(args ...string) ([]byte, []byte, error)) {
	t.Helper()
	mustData(t, run, "login", "--email", "nimal@example.com", "--password", "secret")
}

func TestPrivateCommandsRequireSignIn(t *testing.T) {
	api := newFakeAPI(t)
	run := cliEnv(t, api)

	_, stderr, err := run("reports", "categories")
	require.ErrorIs(t, err, errNotSignedIn)
	assert.Contains(t, string(stderr), "not signed in")
	assert.Zero(t, api.hits("GET "), "no request may be sent while signed out")
}

func TestLoginPersistsSessionAcrossInvocations(t *testing.T) {
	api := newFakeAPI(t)
	run := cliEnv(t, api)

	user := mustData(t, run, "login", "--email", "nimal@example.com", "--password", "secret").(map[string]any)
	assert.Equal(t, "Nimal", user["firstName"])

	who := mustData(t, run, "whoami").(map[string]any)
	assert.Equal(t, true, who["signedIn"])
	assert.Equal(t, api.srv.URL, who["apiUrl"])

	rows := mustData(t, run, "reports", "categories").([]any)
	require.Len(t, rows, 2)
	assert.Equal(t, "Laboratory", rows[0].(map[string]any)["name"])
	assert.Equal(t, "Bearer tok-1", api.lastAuth())

	mustData(t, run, "logout")
	_, _, err := run("reports", "categories")
	assert.ErrorIs(t, err, errNotSignedIn)
}

func TestLoginFailureShowsServerMessage(t *testing.T) {
	api := newFakeAPI(t)
	run := cliEnv(t, api)

	_, stderr, err := run("login", "--email", "nimal@example.com", "--password", "wrong")
	require.Error(t, err)
	assert.Contains(t, string(stderr), "Invalid email or password")
	assert.NotContains(t, string(stderr), "session expired")
}

func TestExpiredSessionMessage(t *testing.T) {
	api := newFakeAPI(t)
	run := cliEnv(t, api)
	signIn(t, run)

	api.failWith(http.StatusUnauthorized)
	_, stderr, err := run("reports", "categories")
	require.Error(t, err)
	assert.Contains(t, string(stderr), "run `jendo login` again")
}

func TestUnreachableServer(t *testing.T) {
	api := newFakeAPI(t)
	run := cliEnv(t, api)
	signIn(t, run)
	api.srv.Close()

	_, stderr, err := run("reports", "categories")
	require.Error(t, err)
	assert.Contains(t, string(stderr), "cannot reach server")
}

func TestInvalidIDNeverReachesServer(t *testing.T) {
	api := newFakeAPI(t)
	run := cliEnv(t, api)
	signIn(t, run)

	for _, args := range [][]string{
		{"reports", "sections", "abc"},
		{"reports", "items", "0"},
		{"reports", "values", "-3"},
		{"reports", "add", "x1", "--number", "5"},
	} {
		_, _, err := run(args...)
		assert.Error(t, err, "args %v", args)
	}
	assert.Zero(t, api.hits("GET /report-"))
	assert.Zero(t, api.hits("POST /report-"))
}

func TestReportsValuesNewestFirst(t *testing.T) {
	api := newFakeAPI(t)
	run := cliEnv(t, api)
	signIn(t, run)

	rows := mustData(t, run, "reports", "values", "100").([]any)
	require.Len(t, rows, 2)
	assert.EqualValues(t, 502, rows[0].(map[string]any)["id"])
	assert.EqualValues(t, 501, rows[1].(map[string]any)["id"])
}

func TestReportsValuesTable(t *testing.T) {
	api := newFakeAPI(t)
	run := cliEnv(t, api)
	signIn(t, run)

	stdout, stderr, err := run("--format", "table", "reports", "values", "100")
	require.NoError(t, err, string(stderr))
	out := string(stdout)
	assert.Contains(t, out, "175.5")
	assert.Contains(t, out, "01 Apr 2025")
	assert.Less(t, strings.Index(out, "175.5"), strings.Index(out, "180"))
}

func TestReportsValuesXLSX(t *testing.T) {
	api := newFakeAPI(t)
	run := cliEnv(t, api)
	signIn(t, run)

	path := filepath.Join(t.TempDir(), "cholesterol.xlsx")
	data := mustData(t, run, "reports", "values", "100", "--xlsx", path).(map[string]any)
	assert.EqualValues(t, 2, data["rows"])

	wb, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer wb.Close()
	assert.Equal(t, []string{"Cholesterol"}, wb.GetSheetList())
}

func TestReportsAddUploadsFiles(t *testing.T) {
	api := newFakeAPI(t)
	run := cliEnv(t, api)
	signIn(t, run)

	dir := t.TempDir()
	a := filepath.Join(dir, "a.pdf")
	b := filepath.Join(dir, "b.png")
	require.NoError(t, os.WriteFile(a, []byte("%PDF-1.4\n"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("\x89PNG\r\n\x1a\n"), 0o644))

	data := mustData(t, run, "reports", "add", "100", "--number", "190", "--text", " after dinner ", "--file", a, "--file", b).(map[string]any)
	value := data["value"].(map[string]any)
	assert.EqualValues(t, 601, value["id"])
	assert.Len(t, data["uploaded"], 2)

	sent := api.sent("POST /report-item-values")
	assert.EqualValues(t, 100, sent["reportItemId"])
	assert.EqualValues(t, 190, sent["valueNumber"])
	assert.Equal(t, "after dinner", sent["valueText"])
	assert.Equal(t, []string{"a.pdf", "b.png"}, api.uploaded())
}

func TestReportsAddRejectsEmptyForm(t *testing.T) {
	api := newFakeAPI(t)
	run := cliEnv(t, api)
	signIn(t, run)

	_, _, err := run("reports", "add", "100")
	require.Error(t, err)
	assert.Zero(t, api.hits("POST /report-item-values"))
}

func TestReportsEditKeepsUnchangedFields(t *testing.T) {
	api := newFakeAPI(t)
	run := cliEnv(t, api)
	signIn(t, run)

	mustData(t, run, "reports", "edit", "100", "502", "--number", "170")

	sent := api.sent("PUT /report-item-values/502")
	assert.EqualValues(t, 170, sent["valueNumber"])
	assert.Equal(t, "fasting", sent["valueText"])
}

func TestReportsEditClearsText(t *testing.T) {
	api := newFakeAPI(t)
	run := cliEnv(t, api)
	signIn(t, run)

	mustData(t, run, "reports", "edit", "100", "502", "--text", "")

	sent := api.sent("PUT /report-item-values/502")
	assert.EqualValues(t, 175.5, sent["valueNumber"])
	v, present := sent["valueText"]
	assert.True(t, present)
	assert.Nil(t, v)
}

func TestReportsEditMissingValue(t *testing.T) {
	api := newFakeAPI(t)
	run := cliEnv(t, api)
	signIn(t, run)

	_, _, err := run("reports", "edit", "100", "999", "--number", "1")
	require.Error(t, err)
	assert.Zero(t, api.hits("PUT "))
}

func TestReportsDeleteRequiresYes(t *testing.T) {
	api := newFakeAPI(t)
	run := cliEnv(t, api)
	signIn(t, run)

	_, stderr, err := run("reports", "delete", "502")
	var ue usageError
	require.True(t, errors.As(err, &ue), "err=%v", err)
	assert.Contains(t, string(stderr), "--yes")
	assert.Zero(t, api.hits("DELETE "))

	data := mustData(t, run, "reports", "delete", "502", "--yes").(map[string]any)
	assert.Equal(t, true, data["deleted"])
	assert.Equal(t, 1, api.hits("DELETE /report-item-values/502"))
}

func TestAttachmentURLIsPure(t *testing.T) {
	api := newFakeAPI(t)
	run := cliEnv(t, api)

	data := mustData(t, run, "reports", "attachment-url", "900").(map[string]any)
	assert.Equal(t, api.srv.URL+"/report-attachments/900/download", data["url"])
	assert.Zero(t, api.hits(""))
}

func TestDoctorsPageMeta(t *testing.T) {
	api := newFakeAPI(t)
	run := cliEnv(t, api)
	signIn(t, run)

	rows := mustData(t, run, "doctors").([]any)
	require.Len(t, rows, 1)
	assert.Equal(t, "Dr. Silva", rows[0].(map[string]any)["name"])

	stdout, stderr, err := run("doctors", "list", "--page", "0", "--size", "5")
	require.NoError(t, err, string(stderr))
	assert.Contains(t, string(stdout), `"totalPages":1`)
}

func TestAppointmentBookUsesSessionUser(t *testing.T) {
	api := newFakeAPI(t)
	run := cliEnv(t, api)
	signIn(t, run)

	mustData(t, run, "appointments", "book", "--doctor", "3", "--date", "2025-05-02", "--time", "09:30", "--type", "video")

	sent := api.sent("POST /appointments")
	assert.EqualValues(t, 7, sent["userId"])
	assert.EqualValues(t, 3, sent["doctorId"])
	assert.Equal(t, "2025-05-02", sent["date"])
	assert.Equal(t, "09:30", sent["time"])
	assert.Equal(t, "video", sent["type"])
}

func TestAppointmentBookRejectsBadFlags(t *testing.T) {
	api := newFakeAPI(t)
	run := cliEnv(t, api)
	signIn(t, run)

	_, _, err := run("appointments", "book", "--doctor", "3", "--date", "05/02/2025", "--time", "09:30")
	require.Error(t, err)
	_, _, err = run("appointments", "book", "--doctor", "3", "--date", "2025-05-02", "--time", "9.30")
	require.Error(t, err)
	assert.Zero(t, api.hits("POST /appointments"))
}

func TestWellnessSummaryAndHTML(t *testing.T) {
	api := newFakeAPI(t)
	run := cliEnv(t, api)
	signIn(t, run)

	rows := mustData(t, run, "wellness").([]any)
	require.Len(t, rows, 1)
	assert.Equal(t, "Oats and beans help.", rows[0].(map[string]any)["summary"])

	stdout, stderr, err := run("wellness", "--html", "1")
	require.NoError(t, err, string(stderr))
	assert.Contains(t, string(stdout), "<h1>Eat more fibre</h1>")
	assert.Contains(t, string(stdout), "<em>beans</em>")
}

func TestNotificationsMarkRead(t *testing.T) {
	api := newFakeAPI(t)
	run := cliEnv(t, api)
	signIn(t, run)

	stdout, stderr, err := run("notifications", "--mark-read", "1")
	require.NoError(t, err, string(stderr))
	assert.Equal(t, 1, api.hits("PUT /notifications/1/read"))
	assert.Contains(t, string(stdout), `"unread":1`)
}

func TestConfigSetAndShow(t *testing.T) {
	api := newFakeAPI(t)
	run := cliEnv(t, api)

	mustData(t, run, "config", "set", "timezone", "Europe/London")
	mustData(t, run, "config", "set", "glyphs", "ascii")

	data := mustData(t, run, "config", "show", "--file").(map[string]any)
	cfg := data["config"].(map[string]any)
	assert.Equal(t, "Europe/London", cfg["timezone"])
	assert.Equal(t, "ascii", cfg["tui"].(map[string]any)["glyphs"])

	mustData(t, run, "config", "set", "glyphs", "")
	cfg = mustData(t, run, "config", "show", "--file").(map[string]any)["config"].(map[string]any)
	assert.NotContains(t, cfg, "tui")

	_, _, err := run("config", "set", "timezone", "Mars/Olympus")
	assert.Error(t, err)
	_, _, err = run("config", "set", "colour", "blue")
	assert.Error(t, err)
}

func TestEDNOutput(t *testing.T) {
	api := newFakeAPI(t)
	run := cliEnv(t, api)
	signIn(t, run)

	stdout, stderr, err := run("--format", "edn", "reports", "categories")
	require.NoError(t, err, string(stderr))
	assert.True(t, strings.HasPrefix(string(stdout), "{:data ["), string(stdout))
}

func TestDocsTopics(t *testing.T) {
	api := newFakeAPI(t)
	run := cliEnv(t, api)

	data := mustData(t, run, "docs").(map[string]any)
	assert.Contains(t, data["topics"], "reports")

	stdout, _, err := run("docs", "deep-links", "--raw")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(stdout), "# Deep links"))

	_, _, err = run("docs", "nope")
	assert.Error(t, err)
}
