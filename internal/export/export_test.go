package export

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizdash/internal/model"
)

func TestTimeEntryCSV(t *testing.T) {
	entries := []model.TimeEntry{
		{ID: "t1", Date: "2025-01-02", Project: "Widget", Description: `Bench "rig" test`, StaffMember: "Ann", Hours: 7.5, RDEligible: true},
		{ID: "t2", Date: "2025-01-03", Project: "Admin", Description: "Invoices, filing", StaffMember: "Bob", Hours: 2},
	}

	var buf bytes.Buffer
	require.NoError(t, CSV(&buf, TimeEntryColumns, entries))

	want := `"Date","Project","Description","Staff","Hours","R&D Eligible"` + "\n" +
		`"2025-01-02","Widget","Bench ""rig"" test","Ann","7.5","Yes"` + "\n" +
		`"2025-01-03","Admin","Invoices, filing","Bob","2","No"` + "\n"
	assert.Equal(t, want, buf.String())
}

func TestCSVEmptyCollectionWritesHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CSV(&buf, CustomerColumns, nil))
	assert.Equal(t, `"Name","Email","Phone","Company"`+"\n", buf.String())
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON[model.Customer](&buf, nil))
	assert.Equal(t, "[]\n", buf.String())

	buf.Reset()
	require.NoError(t, JSON(&buf, []model.Customer{{ID: "cust1", Name: "John Smith", Email: "j@example.com"}}))
	assert.JSONEq(t, `[{"id":"cust1","name":"John Smith","email":"j@example.com","phone":""}]`, buf.String())
}

func TestFilenames(t *testing.T) {
	day := time.Date(2025, time.March, 7, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "time-entries-2025-03-07.csv", DatedFilename("time-entries", "csv", day))
	assert.Equal(t, "customers-2025-03-07.json", DatedFilename("customers", ".json", day))
	assert.Equal(t, "hmrc-rd-report-2024-04-01-to-2025-03-31.pdf", RangeFilename("hmrc-rd-report", "2024-04-01", "2025-03-31", "pdf"))
}

func TestSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "exports")
	path, err := Save(dir, "../escape.csv", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "escape.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))
}
