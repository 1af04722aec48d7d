//go:build tools

//go:generate go build -o ./bin/mockery github.com/vektra/mockery/v2
//go:generate go build -o ./bin/gofumpt mvdan.cc/gofumpt
//go:generate go build -o ./bin/golangci-lint github.com/golangci/golangci-lint/cmd/golangci-lint

// build tools pinned by go.mod; run `go generate -tags tools .` once, then
// `go generate ./pkg/...` to refresh mocks from .mockery.yaml

package main

import (
	_ "github.com/golangci/golangci-lint/cmd/golangci-lint" // nolint
	_ "github.com/vektra/mockery/v2"
	_ "mvdan.cc/gofumpt"
)
