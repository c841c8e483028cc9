package cnst

const (
	AppName     = "scentory"
	CommandName = "apiserver"
	ServiceName = "Perfume Tracker"
)

const (
	ApiServerYaml = "apiserver.yaml"
)
