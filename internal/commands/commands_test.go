package commands

import (
	"bytes"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"outlay/internal/crypto"
)

// runCommand executes the CLI in-process against the database pointed
// at by OUTLAY_DB_PATH.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func setupDB(t *testing.T) {
	t.Helper()
	t.Setenv("OUTLAY_DB_PATH", filepath.Join(t.TempDir(), "outlay.db"))
}

func TestAddAndList(t *testing.T) {
	setupDB(t)

	out, err := runCommand(t, "add", "12.50", "--category", "food", "--note", "market run", "--date", "2025-03-10")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved expense #1")
	assert.Contains(t, out, "Food", "category names are shown in title case")

	out, err = runCommand(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "12.50")
	assert.Contains(t, out, "market run")
	assert.Contains(t, out, "Page 1/1, 1 expenses")
}

func TestAddRejectsBadInput(t *testing.T) {
	setupDB(t)

	_, err := runCommand(t, "add", "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid input")

	_, err = runCommand(t, "add", "10.00", "--date", "10-03-2025")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid input")
}

func TestUpdateTouchesOnlyPassedFlags(t *testing.T) {
	setupDB(t)

	_, err := runCommand(t, "add", "12.50", "--category", "Food", "--note", "market run", "--date", "2025-03-10")
	require.NoError(t, err)

	out, err := runCommand(t, "update", "1", "--amount", "99.99")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated expense #1")

	out, err = runCommand(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "99.99")
	assert.Contains(t, out, "market run", "untouched fields survive an update")
}

func TestUpdateWithoutFlagsFails(t *testing.T) {
	setupDB(t)

	_, err := runCommand(t, "add", "12.50", "--date", "2025-03-10")
	require.NoError(t, err)

	_, err = runCommand(t, "update", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid input")
}

func TestDeleteRestorePurgeFlow(t *testing.T) {
	setupDB(t)

	_, err := runCommand(t, "add", "45.00", "--category", "Transport", "--date", "2025-03-10")
	require.NoError(t, err)

	out, err := runCommand(t, "delete", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted expense #1")

	out, err = runCommand(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No expenses found")

	out, err = runCommand(t, "list", "--include-deleted")
	require.NoError(t, err)
	assert.Contains(t, out, "deleted")

	out, err = runCommand(t, "restore", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Restored expense #1")

	_, err = runCommand(t, "purge", "1")
	require.Error(t, err, "purge must demand confirmation")
	assert.Contains(t, err.Error(), "--yes")

	out, err = runCommand(t, "purge", "1", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Purged expense #1")

	out, err = runCommand(t, "history", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "create")
	assert.Contains(t, out, "purged", "the audit trail outlives the row")
}

func TestDeleteTwiceFails(t *testing.T) {
	setupDB(t)

	_, err := runCommand(t, "add", "45.00", "--date", "2025-03-10")
	require.NoError(t, err)
	_, err = runCommand(t, "delete", "1")
	require.NoError(t, err)

	_, err = runCommand(t, "delete", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already deleted")

	_, err = runCommand(t, "restore", "1")
	require.NoError(t, err)
	_, err = runCommand(t, "restore", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not deleted")
}

func TestBudgetAlerts(t *testing.T) {
	setupDB(t)

	out, err := runCommand(t, "budget", "set", "Food", "2025-03", "100.00")
	require.NoError(t, err)
	assert.Contains(t, out, "Budget set: Food 2025-03 limit 100.00")

	out, err = runCommand(t, "add", "85.00", "--category", "Food", "--date", "2025-03-15")
	require.NoError(t, err)
	assert.Contains(t, out, "WARNING", "85 of 100 crosses the 80% line")

	out, err = runCommand(t, "add", "20.00", "--category", "Food", "--date", "2025-03-16")
	require.NoError(t, err)
	assert.Contains(t, out, "EXCEEDED")

	out, err = runCommand(t, "budget", "status", "Food", "2025-03")
	require.NoError(t, err)
	assert.Contains(t, out, "spent 105.00 of 100.00 (105%) EXCEEDED")
}

func TestBudgetStatusWithoutBudget(t *testing.T) {
	setupDB(t)

	_, err := runCommand(t, "add", "10.00", "--category", "Food", "--date", "2025-03-15")
	require.NoError(t, err)

	out, err := runCommand(t, "budget", "status", "Food", "2025-03")
	require.NoError(t, err)
	assert.Contains(t, out, "no budget set")
}

func TestReport(t *testing.T) {
	setupDB(t)

	_, err := runCommand(t, "add", "30.00", "--category", "Food", "--date", "2025-03-10")
	require.NoError(t, err)
	_, err = runCommand(t, "add", "20.00", "--category", "Transport", "--date", "2025-03-12")
	require.NoError(t, err)
	_, err = runCommand(t, "add", "99.00", "--category", "Food", "--date", "2025-04-01")
	require.NoError(t, err)

	out, err := runCommand(t, "report", "2025-03")
	require.NoError(t, err)
	assert.Contains(t, out, "Food")
	assert.Contains(t, out, "30.00")
	assert.Contains(t, out, "Transport")
	assert.Contains(t, out, "TOTAL")
	assert.Contains(t, out, "50.00")
	assert.NotContains(t, out, "99.00", "other months stay out of the report")
}

func TestExportExcel(t *testing.T) {
	setupDB(t)

	_, err := runCommand(t, "add", "30.00", "--category", "Food", "--date", "2025-03-10")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "report.xlsx")
	out, err := runCommand(t, "export", "--format", "excel", "--out", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 1 expenses to "+path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	setupDB(t)

	_, err := runCommand(t, "export", "--format", "csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "format must be excel or pdf")
}

func TestKeygenPrintsUsableKey(t *testing.T) {
	out, err := runCommand(t, "keygen")
	require.NoError(t, err)

	raw, err := base64.URLEncoding.DecodeString(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Len(t, raw, crypto.KeySize)
}

func TestEncryptedNotes(t *testing.T) {
	setupDB(t)
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	t.Setenv("OUTLAY_ENCRYPT_NOTES", "1")
	t.Setenv("OUTLAY_KEY", key)

	_, err = runCommand(t, "add", "10.00", "--note", "taxi to the airport", "--date", "2025-03-10")
	require.NoError(t, err)

	out, err := runCommand(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "taxi to the airport", "display decrypts notes")

	out, err = runCommand(t, "list", "--keyword", "taxi")
	require.NoError(t, err)
	assert.Contains(t, out, "No expenses found", "encrypted notes stay out of search by default")

	out, err = runCommand(t, "list", "--keyword", "taxi", "--decrypt-search")
	require.NoError(t, err)
	assert.Contains(t, out, "taxi to the airport")
}

func TestVersionFlag(t *testing.T) {
	out, err := runCommand(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "dev")
}
