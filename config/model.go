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

// Package config loads the CLI flags and JSON configuration file for the
// supervisor, with cobra flags and viper merging the config file and
// defaults into one resolved Config.
package config

// Endpoint is one upstream record ("btcd"/"proxy" array entries in the
// config file).
type Endpoint struct {
	URL  string `json:"url" mapstructure:"url"`
	Auth string `json:"auth" mapstructure:"auth"`
	Pass string `json:"pass" mapstructure:"pass"`
}

// Mode is the closed set of operating-mode flags, with mutual exclusions
// enforced by Load rather than left to the caller.
type Mode struct {
	Standalone  bool
	Proxy       bool
	Passthrough bool
	BTCSolo     bool
	Handover    bool
	KillOld     bool
	LogShares   bool
}

// Config is the immutable, fully-resolved configuration for one supervisor
// instance: CLI flags plus JSON file, defaults applied.
type Config struct {
	Name       string
	ConfigPath string
	SockDir    string
	LogDir     string
	Group      string
	LogLevel   int

	CkdbName    string
	CkdbSockdir string

	Mode Mode

	BTCDs   []Endpoint
	Proxies []Endpoint

	BTCAddress     string
	BTCSig         string
	BlockPollMS    int
	UpdateInterval int
	ServerURL      string
	MinDiff        int64
	StartDiff      int64

	// InitialArgs is argv captured verbatim at startup, re-used by the
	// "restart" control command.
	InitialArgs []string
}

// defaultBTCAddress is the donation address used when the config omits
// btcaddress.
const defaultBTCAddress = "1QATWksNFArfBqkEWTvTTBNZ6hRg4eofs4"

const maxBTCSigBytes = 38
