// Copyright 2022 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Binary asptelsh is an interactive shell for the incremental driver.
package main

import (
	"flag"
	"io"
	"os"

	log "github.com/golang/glog"

	"github.com/google/asptel/shell"
)

var (
	load = flag.String("load", "", "source file to load before entering the command loop")
	root = flag.String("root", "", "all ::load commands are relative to this directory")
)

func main() {
	flag.Parse()
	s := shell.New(os.Stdout, *root)

	if *load != "" {
		if err := s.Load(*load); err != nil {
			log.Exitf("error loading %s: %v", *load, err)
		}
	}

	if err := s.Loop(); err != io.EOF {
		log.Exit(err)
	}
	os.Exit(0)
}
