// Copyright 2024 The Erigon Authors
// This file is part of Erigon.
//
// Erigon is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Erigon is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Erigon. If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"fmt"
	"os"

	"github.com/ledgerwatch/log/v3"
	"github.com/urfave/cli/v2"

	"github.com/erigontech/minter-tx/params"
	"github.com/erigontech/minter-tx/turbo/logging"
)

var logger = log.New()

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = params.ClientName
	app.Usage = "Build, sign and verify Minter transactions"
	app.Version = params.VersionWithCommit(params.GitCommit)
	app.Flags = logging.Flags
	app.Before = func(cliCtx *cli.Context) error {
		logger = logging.SetupLoggerCtx(params.ClientName, cliCtx)
		return nil
	}
	app.Commands = []*cli.Command{
		signCmd,
		decodeCmd,
		verifyCmd,
		addressCmd,
		keygenCmd,
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
