package main

import (
	"github.com/linecard/filelink/cmd/cli"
	"github.com/linecard/filelink/cmd/handler"
	"github.com/linecard/filelink/internal/tracing"
	"github.com/linecard/filelink/internal/util"
)

func main() {
	util.SetLogLevel()

	tp, shutdown := tracing.InitOtel()
	defer shutdown()

	if util.InLambda() {
		handler.Listen(tp)
		return
	}

	cli.Invoke()
}
