package shell

import (
	"embed"
	"strings"
)

//go:embed helptext/*.txt
var helptext embed.FS

func usage(version string) string {
	dat, err := helptext.ReadFile("helptext/usage.txt")
	if err != nil {
		return "Error loading helptext: " + err.Error()
	}
	out := strings.TrimRight(string(dat), "\n")
	if version != "" {
		out = "opener " + version + "\n\n" + out
	}
	return out
}

func usageTopic(topic string) string {
	dat, err := helptext.ReadFile("helptext/" + topic + ".txt")
	if err != nil {
		return "There is no help text for the topic " + topic
	}
	return strings.TrimRight(string(dat), "\n")
}
