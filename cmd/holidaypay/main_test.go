package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/holiday-pay/payroll"
	"github.com/warp/holiday-pay/table"
)

const exportCSV = "Created At (UTC),Name,Start Time,End Time,Regular Hours Worked,Overtime Hours Worked,Pay Rate,Overtime Pay Rate,Stipend (Pro-rated)\n" +
	"2021-01-03 10:00 AM,Carol,2021-01-01 06:00 AM,2021-01-02 02:00 AM,8,8,100,150,50\n" +
	"2021-01-02 09:00 AM,Alice,2021-01-01 08:00 AM,2021-01-01 04:00 PM,8,0,20,30,0\n"

const expectedCSV = "Created At (UTC),Name,Start Time,End Time,Hours Worked,Overtime Hours Worked,Pay Rate,HOL,Adjustment,Total Pay\n" +
	"2021-01-02 09:00 AM,Alice,2021-01-01 08:00 AM,2021-01-01 04:00 PM,0,0,20,8,80.00,240.00\n" +
	"2021-01-03 10:00 AM,Carol,2021-01-01 06:00 AM,2021-01-02 02:00 AM,0,8,100,8,400.00,2450.00\n"

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"LOG_LEVEL", "RULES_PRESET", "RULES_FILE", "HOLIDAY_MULTIPLIER", "APPROVAL_THRESHOLD",
		"HOLIDAY_DEDUCTION", "TOTAL_PAY_FORMULA", "PAYROLL_TIMEZONE", "LENIENT_TIMESTAMPS",
	} {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRun_CSVToStdout(t *testing.T) {
	clearEnv(t)
	in := writeFile(t, "export.csv", exportCSV)

	var stdout, stderr bytes.Buffer
	err := run([]string{"-holiday", "2021-01-01", "-in", in}, nil, &stdout, &stderr)
	require.NoError(t, err)

	assert.Equal(t, expectedCSV, stdout.String())
	assert.Contains(t, stderr.String(), `"super_admin_list":["Carol"]`)
}

func TestRun_Stdin(t *testing.T) {
	clearEnv(t)

	var stdout, stderr bytes.Buffer
	err := run([]string{"-holiday", "2021-01-01"}, strings.NewReader(exportCSV), &stdout, &stderr)
	require.NoError(t, err)

	assert.Equal(t, expectedCSV, stdout.String())
}

func TestRun_LegacyPreset(t *testing.T) {
	clearEnv(t)
	in := writeFile(t, "export.csv", exportCSV)

	var stdout, stderr bytes.Buffer
	err := run([]string{"-holiday", "2021-01-01", "-in", in, "-preset", "legacy"}, nil, &stdout, &stderr)
	require.NoError(t, err)

	// Carol without stipend: 800 + 1200 + 400
	assert.Contains(t, stdout.String(), ",400.00,2400.00\n")
}

func TestRun_XLSXRoundTrip(t *testing.T) {
	clearEnv(t)

	// GIVEN: the export as a workbook
	src, err := table.ReadCSV(strings.NewReader(exportCSV))
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, table.WriteXLSX(&buf, table.Sheet{Name: "Export", Table: src}))
	in := writeFile(t, "export.xlsx", buf.String())
	out := filepath.Join(t.TempDir(), "payroll.xlsx")

	// WHEN
	var stdout, stderr bytes.Buffer
	require.NoError(t, run([]string{"-holiday", "2021-01-01", "-in", in, "-out", out}, nil, &stdout, &stderr))

	// THEN: both sheets are written and nothing goes to stdout
	assert.Empty(t, stdout.String())

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()

	got, err := table.ReadXLSX(f, "Payroll")
	require.NoError(t, err)
	want, err := table.ReadCSV(strings.NewReader(expectedCSV))
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = f.Seek(0, 0)
	require.NoError(t, err)
	approval, err := table.ReadXLSX(f, "Approval")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Carol"}}, approval.Rows)
}

func TestRun_CSVFileOutput(t *testing.T) {
	clearEnv(t)
	in := writeFile(t, "export.csv", exportCSV)
	out := filepath.Join(t.TempDir(), "payroll.csv")

	var stdout, stderr bytes.Buffer
	require.NoError(t, run([]string{"-holiday", "2021-01-01", "-in", in, "-out", out}, nil, &stdout, &stderr))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, expectedCSV, string(data))
}

func TestRun_Errors(t *testing.T) {
	clearEnv(t)
	in := writeFile(t, "export.csv", exportCSV)

	var stdout, stderr bytes.Buffer

	err := run([]string{"-holiday", "01/01/2021", "-in", in}, nil, &stdout, &stderr)
	assert.ErrorIs(t, err, payroll.ErrInvalidDate)

	err = run([]string{"-holiday", "2021-01-01", "-in", filepath.Join(t.TempDir(), "missing.csv")}, nil, &stdout, &stderr)
	assert.ErrorIs(t, err, os.ErrNotExist)

	notBook := writeFile(t, "export.xlsx", exportCSV)
	err = run([]string{"-holiday", "2021-01-01", "-in", notBook}, nil, &stdout, &stderr)
	assert.ErrorIs(t, err, payroll.ErrMalformedInput)

	err = run([]string{"-holiday", "2021-01-01", "-in", in, "-preset", "generous"}, nil, &stdout, &stderr)
	assert.Error(t, err)

	err = run([]string{"-bogus"}, nil, &stdout, &stderr)
	assert.Error(t, err)
}

func TestCreateFile_RemovesPartialOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "payroll.csv")

	err := createFile(path, func(w io.Writer) error {
		_, _ = w.Write([]byte("Created At (UTC),Name\n"))
		return errors.New("disk full")
	})

	assert.EqualError(t, err, "disk full")
	_, statErr := os.Stat(path)
	assert.ErrorIs(t, statErr, os.ErrNotExist)
}

func TestRun_FailedRunLeavesNoOutput(t *testing.T) {
	clearEnv(t)
	in := writeFile(t, "export.csv", strings.Replace(exportCSV, ",100,", ",lots,", 1))
	out := filepath.Join(t.TempDir(), "payroll.csv")

	var stdout, stderr bytes.Buffer
	err := run([]string{"-holiday", "2021-01-01", "-in", in, "-out", out}, nil, &stdout, &stderr)
	assert.ErrorIs(t, err, payroll.ErrMalformedInput)

	_, statErr := os.Stat(out)
	assert.ErrorIs(t, statErr, os.ErrNotExist)
}
