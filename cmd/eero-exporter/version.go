package main

import (
	"io"

	"github.com/fulviofreitas/eero-exporter/pkg/util"
)

func runVersion(stdout io.Writer) int {
	util.WriteBuildInfo(stdout, buildVersion, buildDate, buildCommit)
	return 0
}
