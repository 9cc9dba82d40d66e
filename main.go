package main

import (
	"github.com/alecthomas/kong"

	"droscher.com/FestivalGargoyle/cmd"
)

func main() {
	ctx := kong.Parse(&cmd.CLI, kong.Name("Festival Gargoyle"), kong.Description("FestivalGargoyle serves and maintains a festival beer list."))
	err := ctx.Run(&cmd.Context{Debug: cmd.CLI.Debug})
	ctx.FatalIfErrorf(err)
}
