package param

// GlobalOpts are exported into their FILELINK_* variables before the stack file is read,
// so a flag beats the environment which beats the file.
type GlobalOpts struct {
	File      string `arg:"-f,--file,env:FILELINK_FILE" help:"stack file" default:"filelink.toml"`
	Preset    string `arg:"-p,--preset" help:"gateway-indexed, url-indexed, gateway-basic or url-basic"`
	Stack     string `arg:"--stack" help:"stack name"`
	Stage     string `arg:"-s,--stage" help:"stage name, defaults to the git branch"`
	Entry     string `arg:"-e,--entry" help:"public entry kind: gateway or url"`
	Indexed   string `arg:"--indexed" help:"provision the metadata index: true or false"`
	Bucket    string `arg:"--bucket" help:"object store bucket name"`
	Retention string `arg:"--retention" help:"ephemeral or persistent"`
	Artifact  string `arg:"-a,--artifact" help:"prebuilt deployment zip or bootstrap binary"`
	ImageUri  string `arg:"--image-uri" help:"container image to deploy instead of an artifact"`
}

type Init struct {
	Preset string `arg:"positional" help:"preset to scaffold from" default:"gateway-indexed"`
	Output string `arg:"-o,--output" help:"where to write the stack file" default:"filelink.toml"`
}

type Plan struct {
	Format string `arg:"--format" help:"json or yaml" default:"json"`
}

type Deploy struct {
	Verify bool `arg:"--verify" help:"verify grants once deployed"`
}

type Destroy struct {
	Yes bool `arg:"-y,--yes" help:"confirm teardown"`
}

type Status struct{}

type Verify struct {
	Live bool `arg:"--live" help:"also smoke test the mounted entry over HTTP"`
}

type Serve struct {
	Addr string `arg:"--addr" help:"listen address" default:"127.0.0.1:8080"`
}

type Config struct{}
