/*
 * MIT License
 *
 * Copyright (c) 2026 plebhash
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/plebhash/ckpool-solo-signet-workshop/apperror"
)

func newTestViper(t *testing.T, args ...string) *viper.Viper {
	t.Helper()
	v := viper.New()
	cmd := &cobra.Command{Use: "ckpoold", RunE: func(*cobra.Command, []string) error { return nil }}
	if err := BindFlags(cmd, v); err != nil {
		t.Fatalf("BindFlags: %v", err)
	}
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	return v
}

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	v := newTestViper(t, "--sockdir", dir, "--config", filepath.Join(dir, "missing.conf"))

	cfg, err := Load(v, []string{"ckpoold"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.BTCAddress != defaultBTCAddress {
		t.Errorf("BTCAddress = %q, want default", cfg.BTCAddress)
	}
	if cfg.BlockPollMS != 500 {
		t.Errorf("BlockPollMS = %d, want 500", cfg.BlockPollMS)
	}
	if cfg.MinDiff != 1 {
		t.Errorf("MinDiff = %d, want 1", cfg.MinDiff)
	}
	if cfg.StartDiff != 42 {
		t.Errorf("StartDiff = %d, want 42", cfg.StartDiff)
	}
	if cfg.LogDir != "logs" {
		t.Errorf("LogDir = %q, want logs", cfg.LogDir)
	}
	if cfg.Name != "ckpool" {
		t.Errorf("Name = %q, want ckpool", cfg.Name)
	}
}

func TestLoadBTCSoloImpliesStandalone(t *testing.T) {
	v := newTestViper(t, "--btcsolo")
	cfg, err := Load(v, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Mode.Standalone {
		t.Error("expected btcsolo to imply standalone")
	}
}

func TestLoadBTCSoloConflictsWithProxy(t *testing.T) {
	v := newTestViper(t, "--btcsolo", "--proxy")
	_, err := Load(v, nil)
	if err == nil {
		t.Fatal("expected an error for btcsolo+proxy")
	}
	if apperror.CodeOf(err) != apperror.FatalStartup {
		t.Fatalf("expected FatalStartup, got %v", apperror.CodeOf(err))
	}
}

func TestLoadHandoverImpliesKillOld(t *testing.T) {
	v := newTestViper(t, "--handover")
	cfg, err := Load(v, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Mode.KillOld {
		t.Error("expected handover to imply killold")
	}
}

func TestLoadRejectsOutOfRangeLogLevel(t *testing.T) {
	v := newTestViper(t, "--loglevel", "99")
	_, err := Load(v, nil)
	if err == nil {
		t.Fatal("expected an error for an out-of-range loglevel")
	}
}

func TestLoadReadsJSONConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "ckpool.conf")
	const body = `{
		"btcaddress": "bc1qexample",
		"mindiff": 5,
		"serverurl": "https://example.invalid"
	}`
	if err := os.WriteFile(cfgPath, []byte(body), 0640); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	v := newTestViper(t, "--config", cfgPath)
	cfg, err := Load(v, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BTCAddress != "bc1qexample" {
		t.Errorf("BTCAddress = %q, want bc1qexample", cfg.BTCAddress)
	}
	if cfg.MinDiff != 5 {
		t.Errorf("MinDiff = %d, want 5", cfg.MinDiff)
	}
	if cfg.ServerURL != "https://example.invalid" {
		t.Errorf("ServerURL = %q", cfg.ServerURL)
	}
}

func TestLoadMalformedJSONIsNonFatal(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "ckpool.conf")
	if err := os.WriteFile(cfgPath, []byte("{not valid json"), 0640); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	v := newTestViper(t, "--config", cfgPath)
	cfg, err := Load(v, nil)
	if cfg == nil {
		t.Fatal("expected a defaulted Config even on malformed JSON")
	}
	if err == nil {
		t.Fatal("expected a non-nil warning error for malformed JSON")
	}
	if apperror.CodeOf(err) == apperror.FatalStartup {
		t.Fatal("malformed config JSON must not be fatal")
	}
	if cfg.BTCAddress != defaultBTCAddress {
		t.Errorf("expected defaults applied despite malformed JSON, got BTCAddress=%q", cfg.BTCAddress)
	}
}

func TestLoadBTCSigTruncated(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "ckpool.conf")
	longSig := ""
	for i := 0; i < 60; i++ {
		longSig += "x"
	}
	body := `{"btcsig":"` + longSig + `"}`
	if err := os.WriteFile(cfgPath, []byte(body), 0640); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	v := newTestViper(t, "--config", cfgPath)
	cfg, err := Load(v, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.BTCSig) != maxBTCSigBytes {
		t.Fatalf("BTCSig length = %d, want %d", len(cfg.BTCSig), maxBTCSigBytes)
	}
}
