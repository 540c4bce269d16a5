package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/docstacker/docsign/client/services/workflow"
	"github.com/docstacker/docsign/qr"
	"github.com/docstacker/docsign/types"
)

const downloadLink = "http://backend/api/documents/doc1_final/download"

func fakeDaemon(t *testing.T) string {
	mux := http.NewServeMux()
	reply := func(w http.ResponseWriter, status int, result interface{}, errMsg string) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		require.NoError(t, json.NewEncoder(w).Encode(Response{ErrorMessage: errMsg, Result: mustJSON(t, result)}))
	}
	mux.HandleFunc("/getSession", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("sessionID") != "s1" {
			reply(w, http.StatusNotFound, nil, "session not found")
			return
		}
		reply(w, http.StatusOK, workflow.View{
			ID:     "s1",
			Stage:  "stage_place_fields",
			Roster: []types.Signer{{ID: "signer_1", Name: "Alice", Color: "#1f77b4"}},
		}, "")
	})
	mux.HandleFunc("/createSession", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Signers []string `json:"signers"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		var roster []types.Signer
		for _, name := range body.Signers {
			roster = append(roster, types.Signer{ID: "signer_" + name, Name: name})
		}
		reply(w, http.StatusOK, workflow.View{ID: "s2", Stage: "stage_upload", Roster: roster}, "")
	})
	mux.HandleFunc("/getCoverage", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, []types.Signer{{ID: "signer_2", Name: "Bob"}}, "")
	})
	mux.HandleFunc("/getDownloadQR", func(w http.ResponseWriter, r *http.Request) {
		png, err := qr.EncodeQR(downloadLink, 256)
		require.NoError(t, err)
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(png)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return strings.TrimPrefix(server.URL, "http://")
}

func mustJSON(t *testing.T, v interface{}) json.RawMessage {
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	root := &cobra.Command{Use: "docsign_cli", SilenceUsage: true, SilenceErrors: true}
	root.PersistentFlags().AddFlagSet(rootCmd.PersistentFlags())
	root.AddCommand(cmd)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestGetSession(t *testing.T) {
	req := require.New(t)
	addr := fakeDaemon(t)

	out, err := run(t, getSessionCommand(), "get_session", "s1", "--listen_addr", addr, "-o", "yaml")
	req.NoError(err)
	req.Contains(out, "stage: stage_place_fields")
	req.Contains(out, "name: Alice")

	out, err = run(t, getSessionCommand(), "get_session", "s1", "--listen_addr", addr)
	req.NoError(err)
	req.Contains(out, "Session s1")
	req.Contains(out, "signer_1\tAlice")

	_, err = run(t, getSessionCommand(), "get_session", "missing", "--listen_addr", addr)
	req.Error(err)
	req.Contains(err.Error(), "session not found")
	req.Contains(err.Error(), "404")

	_, err = run(t, getSessionCommand(), "get_session", "s1", "--listen_addr", addr, "-o", "xml")
	req.Error(err)
}

func TestCreateSessionAndCoverage(t *testing.T) {
	req := require.New(t)
	addr := fakeDaemon(t)

	out, err := run(t, createSessionCommand(), "create_session", "Alice", "Bob", "--listen_addr", addr)
	req.NoError(err)
	req.Contains(out, "signer_Bob")

	out, err = run(t, getCoverageCommand(), "get_coverage", "s2", "--listen_addr", addr)
	req.NoError(err)
	req.Contains(out, "Bob (signer_2) has no field")
}

func TestDownloadQR(t *testing.T) {
	req := require.New(t)
	addr := fakeDaemon(t)
	dir := t.TempDir()

	out, err := run(t, getDownloadQRCommand(), "get_download_qr", "s1", "--listen_addr", addr, "--qr_codes_folder", dir)
	req.NoError(err)
	path := filepath.Join(dir, "docsign_s1_download.png")
	req.Contains(out, path)
	_, err = os.Stat(path)
	req.NoError(err)

	out, err = run(t, decodeQRCommand(), "decode_qr", path)
	req.NoError(err)
	req.Equal(downloadLink, strings.TrimSpace(out))
}
