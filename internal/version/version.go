package version

import (
	"encoding/json"
	"log"
	"os"
	"runtime"
)

type Info struct {
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
}

// Load reads version.json next to the binary; a missing or malformed
// file degrades to the zero version rather than failing startup.
func Load() Info {
	info := Info{Version: "0.0.0", GoVersion: runtime.Version()}

	data, err := os.ReadFile("version.json")
	if err != nil {
		log.Printf("version: could not read version.json: %v", err)
		return info
	}
	var file struct {
		Version string `json:"version"`
	}
	if err := json.Unmarshal(data, &file); err != nil {
		log.Printf("version: could not parse version.json: %v", err)
		return info
	}
	if file.Version != "" {
		info.Version = file.Version
	}
	return info
}
