// Package embed provides embedded assets for fproj.
package embed

import "embed"

//go:embed assets/*

// Assets contains all embedded files for fproj.
var Assets embed.FS

// ConfigTemplate returns the starter configuration template. The template
// carries fmt verbs for the primary root's path and depth; callers render
// it with fmt.Sprintf.
func ConfigTemplate() (string, error) {
	data, err := Assets.ReadFile("assets/config.yaml")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
