package version

var (
	AppName        = "Lavaqueue"
	AppDescription = "Per-guild music playback orchestration on top of a Lavalink node"
	AppVersion     = "0.3.0"
)
