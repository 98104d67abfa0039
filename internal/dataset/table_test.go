package dataset

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	errx "github.com/chat-governanca/server/internal/core/error"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `cidade,idade,plano
São Paulo,34,premium
Recife,28,basico
São Paulo,45,basico
Curitiba,,premium
Recife,51,premium
`

func mustRead(t *testing.T, s string) *Table {
	t.Helper()
	tbl, err := Read(strings.NewReader(s))
	require.NoError(t, err)
	return tbl
}

func TestReadInfersKinds(t *testing.T) {
	tbl := mustRead(t, sampleCSV)

	assert.Equal(t, 5, tbl.Rows())
	assert.Equal(t, []string{"cidade", "idade", "plano"}, tbl.ColumnNames())

	idade, err := tbl.Column("idade")
	require.NoError(t, err)
	assert.Equal(t, KindNumber, idade.Kind)
	assert.Len(t, idade.Numbers, 5)

	cidade, err := tbl.Column("CIDADE")
	require.NoError(t, err)
	assert.Equal(t, KindText, cidade.Kind)
}

func TestReadRejectsEmptyInput(t *testing.T) {
	_, err := Read(strings.NewReader(""))
	assert.ErrorContains(t, err, "csv is empty")
}

func TestReadHandlesRaggedRowsAndBOM(t *testing.T) {
	tbl := mustRead(t, "\ufeffa,b\n1\n2,3\n")

	assert.Equal(t, []string{"a", "b"}, tbl.ColumnNames())
	assert.Equal(t, map[string]string{"a": "1", "b": ""}, tbl.Row(0))
}

func TestLoadFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o600))

	tbl, err := Load(context.Background(), Config{Path: path})

	require.NoError(t, err)
	assert.Equal(t, path, tbl.Source)
	assert.Equal(t, 5, tbl.Rows())
}

func TestLoadMissingFileIsDatasetError(t *testing.T) {
	_, err := Load(context.Background(), Config{Path: filepath.Join(t.TempDir(), "missing.csv")})

	require.Error(t, err)
	assert.Equal(t, errx.KindDataset, errx.KindOf(err))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadFromURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/data.csv" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(sampleCSV))
	}))
	defer srv.Close()

	tbl, err := Load(context.Background(), Config{Path: "ignored.csv", URL: srv.URL + "/data.csv"})
	require.NoError(t, err)
	assert.Equal(t, 5, tbl.Rows())

	_, err = Load(context.Background(), Config{URL: srv.URL + "/other.csv"})
	require.Error(t, err)
	assert.Equal(t, errx.KindDataset, errx.KindOf(err))
	assert.ErrorContains(t, err, "404")
}
