// Copyright (C) 2024 BlueSkeye
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// sladump renders a packed marshaling stream as XML for inspection.
//
// The packed form carries address spaces by table index, so the
// space table of the producing program must be supplied with -spaces
// in registration order.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/BlueSkeye/SLA/marshal"
	"github.com/BlueSkeye/SLA/space"
)

var (
	dashv  bool
	dashi  string
	dasho  string
	spaces string
)

func init() {
	flag.BoolVar(&dashv, "v", false, "verbose")
	flag.StringVar(&dashi, "i", "-", "input packed stream (- for stdin)")
	flag.StringVar(&dasho, "o", "-", "output XML (- for stdout)")
	flag.StringVar(&spaces, "spaces", "ram,register,unique", "comma-separated basic space names, in table order")
}

func manager(log zerolog.Logger) *space.Manager {
	mgr := space.NewManager()
	for _, name := range strings.Split(spaces, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		spc := mgr.Register(name)
		log.Debug().Str("space", name).Int("index", spc.Index()).Msg("registered basic space")
	}
	mgr.RegisterSpecial("stack", space.Stack)
	mgr.RegisterSpecial("join", space.Join)
	mgr.RegisterSpecial("fspec", space.Fspec)
	mgr.RegisterSpecial("iop", space.Iop)
	mgr.RegisterSpecial("spacebase", space.Spacebase)
	return mgr
}

func main() {
	flag.Parse()
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if !dashv {
		log = log.Level(zerolog.InfoLevel)
	}

	in := io.Reader(os.Stdin)
	if dashi != "-" {
		f, err := os.Open(dashi)
		if err != nil {
			log.Fatal().Err(err).Msg("cannot open input")
		}
		defer f.Close()
		in = f
	}
	out := io.Writer(os.Stdout)
	if dasho != "-" {
		f, err := os.Create(dasho)
		if err != nil {
			log.Fatal().Err(err).Msg("cannot create output")
		}
		defer f.Close()
		out = f
	}

	dec := marshal.NewPackedDecoder(manager(log))
	if err := dec.Ingest(in); err != nil {
		log.Fatal().Err(err).Msg("ingest failed")
	}
	enc := marshal.NewXMLEncoder(out)
	if err := marshal.Transcode(enc, dec); err != nil {
		log.Fatal().Err(err).Msg("transcode failed")
	}
	fmt.Fprintln(out)
	log.Debug().Msg("done")
}
