package cmd

type Context struct {
	Debug bool
}

var CLI struct {
	Debug bool `help:"Enable debug mode"`

	Serve   ServeCmd   `cmd:"" default:"1"                    help:"Run the server"`
	Migrate MigrateCmd `cmd:"" help:"Run database migrations"`
	Update  UpdateCmd  `cmd:"" help:"Fetch the festival feed and import it"`
	Export  ExportCmd  `cmd:"" help:"Export the beer list as CSV"`
	Lookup  LookupCmd  `cmd:"" help:"Look up a beer on the web"`
}
