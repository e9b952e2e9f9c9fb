// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration_test

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/bverifyd/configuration"
	"github.com/bitmark-inc/bverifyd/fault"
	"github.com/bitmark-inc/bverifyd/fixtures"
)

type database struct {
	Directory string `gluamapper:"directory"`
	Name      string `gluamapper:"name"`
}

type testConfiguration struct {
	DataDirectory  string            `gluamapper:"data_directory"`
	CommitInterval int               `gluamapper:"commit_interval"`
	CommitToLedger bool              `gluamapper:"commit_to_ledger"`
	Listen         []string          `gluamapper:"listen"`
	Database       database          `gluamapper:"database"`
	Levels         map[string]string `gluamapper:"levels"`
}

const script = `
local M = {}

M.data_directory = arg[0]:match("(.*/)")
M.commit_interval = 4 + 1
M.commit_to_ledger = var.ledger == "yes"
M.listen = { "127.0.0.1:2130", "[::1]:2130" }
M.database = {
    directory = "data",
    name = "log.leveldb",
}
M.levels = {
    main = "info",
    DEFAULT = "critical",
}

return M
`

func write(t *testing.T, name string, text string) string {
	fileName := filepath.Join(fixtures.TestDirectory(), name)
	err := ioutil.WriteFile(fileName, []byte(text), 0600)
	assert.Nil(t, err, "write: %s", name)
	return fileName
}

func TestParseConfigurationFile(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	fileName := write(t, "test.conf", script)

	options := testConfiguration{
		CommitInterval: 3,
	}
	err := configuration.ParseConfigurationFile(fileName, &options, map[string]string{"ledger": "yes"})
	assert.Nil(t, err, "parse")

	assert.Equal(t, fixtures.TestDirectory()+"/", options.DataDirectory, "directory from arg[0]")
	assert.Equal(t, 5, options.CommitInterval, "computed value")
	assert.True(t, options.CommitToLedger, "variable")
	assert.Equal(t, []string{"127.0.0.1:2130", "[::1]:2130"}, options.Listen, "list")
	assert.Equal(t, database{Directory: "data", Name: "log.leveldb"}, options.Database, "nested table")
	assert.Equal(t, "critical", options.Levels["DEFAULT"], "map")

	options = testConfiguration{}
	err = configuration.ParseConfigurationFile(fileName, &options, nil)
	assert.Nil(t, err, "parse without variables")
	assert.False(t, options.CommitToLedger, "missing variable")
}

func TestParseConfigurationFileErrors(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	fileName := write(t, "test.conf", script)

	var options testConfiguration
	err := configuration.ParseConfigurationFile(fileName, options, nil)
	assert.Equal(t, fault.ErrInvalidStructPointer, err, "not a pointer")

	var number int
	err = configuration.ParseConfigurationFile(fileName, &number, nil)
	assert.Equal(t, fault.ErrInvalidStructPointer, err, "not a struct")

	err = configuration.ParseConfigurationFile(write(t, "number.conf", "return 42\n"), &options, nil)
	assert.Equal(t, fault.ErrConfigurationNotTable, err, "not a table")

	err = configuration.ParseConfigurationFile(write(t, "broken.conf", "return {\n"), &options, nil)
	assert.NotNil(t, err, "syntax error")

	err = configuration.ParseConfigurationFile(filepath.Join(fixtures.TestDirectory(), "missing.conf"), &options, nil)
	assert.NotNil(t, err, "missing file")
}
