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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/plebhash/ckpool-solo-signet-workshop/apperror"
)

// fileSchema mirrors the JSON config file's top-level keys.
type fileSchema struct {
	BTCD           []Endpoint `json:"btcd"`
	Proxy          []Endpoint `json:"proxy"`
	BTCAddress     string     `json:"btcaddress"`
	BTCSig         string     `json:"btcsig"`
	BlockPollMS    int        `json:"blockpoll"`
	UpdateInterval int        `json:"update_interval"`
	ServerURL      string     `json:"serverurl"`
	MinDiff        int64      `json:"mindiff"`
	StartDiff      int64      `json:"startdiff"`
	LogDir         string     `json:"logdir"`
}

// BindFlags registers every CLI flag on cmd and binds it into v, one
// viper instance per command.
func BindFlags(cmd *cobra.Command, v *viper.Viper) error {
	f := cmd.Flags()

	f.BoolP("standalone", "A", false, "disable DB-reporting path")
	f.BoolP("btcsolo", "B", false, "solo mode; implies standalone")
	f.StringP("config", "c", "", "config file path (default <name>.conf)")
	f.StringP("ckdb-name", "d", "", "reporting-DB process name")
	f.StringP("group", "g", "", "chown group for sockets")
	f.BoolP("handover", "H", false, "perform handover from running instance")
	f.BoolP("killold", "k", false, "SIGKILL an already-present instance")
	f.BoolP("log-shares", "L", false, "enable share logging")
	f.IntP("loglevel", "l", 5, "initial log level (0-7)")
	f.StringP("name", "n", "ckpool", "instance name")
	f.BoolP("passthrough", "P", false, "passthrough proxy")
	f.BoolP("proxy", "p", false, "proxy mode")
	f.StringP("ckdb-sockdir", "S", "", "DB socket directory")
	f.StringP("sockdir", "s", "", "control-socket directory (default /tmp/<name>/)")

	return v.BindPFlags(f)
}

// Load resolves CLI flags plus the JSON config file into a Config,
// applying defaults for anything left unset. Malformed JSON is reported
// (the caller logs it) and defaults apply rather than aborting. A missing
// file, whether named with --config or not, also leaves the defaults in
// place; only a file that exists but cannot be read is fatal.
func Load(v *viper.Viper, initialArgs []string) (*Config, error) {
	name := v.GetString("name")
	if name == "" {
		name = "ckpool"
	}

	mode := Mode{
		Standalone:  v.GetBool("standalone"),
		Proxy:       v.GetBool("proxy"),
		Passthrough: v.GetBool("passthrough"),
		BTCSolo:     v.GetBool("btcsolo"),
		Handover:    v.GetBool("handover"),
		KillOld:     v.GetBool("killold"),
		LogShares:   v.GetBool("log-shares"),
	}
	if mode.BTCSolo {
		mode.Standalone = true
	}
	if mode.Passthrough {
		mode.Proxy = true
		mode.Standalone = true
	}
	if mode.Handover {
		mode.KillOld = true
	}
	if err := validateMode(mode); err != nil {
		return nil, err
	}

	sockDir := v.GetString("sockdir")
	if sockDir == "" {
		sockDir = filepath.Join(os.TempDir(), name)
	}
	sockDir = ensureTrailingSlash(sockDir)

	cfgPath := v.GetString("config")
	if cfgPath == "" {
		cfgPath = name + ".conf"
	}

	lvl := v.GetInt("loglevel")
	if lvl < 0 || lvl > 7 {
		return nil, apperror.New(apperror.FatalStartup, fmt.Sprintf("invalid loglevel (range 0-7): %d", lvl), nil)
	}

	fs, warnErr := readFileSchema(cfgPath)

	cfg := &Config{
		Name:           name,
		ConfigPath:     cfgPath,
		SockDir:        sockDir,
		Group:          v.GetString("group"),
		LogLevel:       lvl,
		CkdbName:       v.GetString("ckdb-name"),
		CkdbSockdir:    v.GetString("ckdb-sockdir"),
		Mode:           mode,
		BTCDs:          fs.BTCD,
		Proxies:        fs.Proxy,
		BTCAddress:     fs.BTCAddress,
		BTCSig:         fs.BTCSig,
		BlockPollMS:    fs.BlockPollMS,
		UpdateInterval: fs.UpdateInterval,
		ServerURL:      fs.ServerURL,
		MinDiff:        fs.MinDiff,
		StartDiff:      fs.StartDiff,
		LogDir:         fs.LogDir,
		InitialArgs:    initialArgs,
	}
	applyDefaults(cfg)

	return cfg, warnErr
}

// readFileSchema reads and parses the JSON config file. A missing file is
// silently treated as "use defaults"; a malformed file returns a non-fatal
// warning error alongside the (all-default) schema so the caller can log
// it without aborting startup.
func readFileSchema(path string) (fileSchema, error) {
	var fs fileSchema

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fs, nil
		}
		return fs, apperror.New(apperror.FatalStartup, "read config file "+path, err)
	}

	if err := json.Unmarshal(b, &fs); err != nil {
		return fileSchema{}, apperror.New(apperror.Protocol, "parse config file "+path, err)
	}
	return fs, nil
}

// applyDefaults fills in every field left at its zero value.
func applyDefaults(cfg *Config) {
	if cfg.BTCAddress == "" {
		cfg.BTCAddress = defaultBTCAddress
	}
	if len(cfg.BTCSig) > maxBTCSigBytes {
		cfg.BTCSig = cfg.BTCSig[:maxBTCSigBytes]
	}
	if cfg.BlockPollMS == 0 {
		cfg.BlockPollMS = 500
	}
	if cfg.UpdateInterval == 0 {
		cfg.UpdateInterval = 30
	}
	if cfg.MinDiff == 0 {
		cfg.MinDiff = 1
	}
	if cfg.StartDiff == 0 {
		cfg.StartDiff = 42
	}
	if cfg.LogDir == "" {
		cfg.LogDir = "logs"
	}
}

// validateMode enforces that btcsolo is mutually exclusive with
// proxy/passthrough.
func validateMode(m Mode) error {
	if m.BTCSolo && (m.Proxy || m.Passthrough) {
		return apperror.New(apperror.FatalStartup, "btcsolo is mutually exclusive with proxy/passthrough", nil)
	}
	return nil
}

func ensureTrailingSlash(p string) string {
	if p == "" || p[len(p)-1] == '/' {
		return p
	}
	return p + "/"
}
