package patcher

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

const (
	// Calls the patched assignments are rewritten to.
	VersionCodeCall = "versionCode getVersionCode()"
	VersionNameCall = "versionName getAppVersion()"

	appVersionFunc  = "def getAppVersion()"
	versionCodeFunc = "def getVersionCode()"
)

var blockTemplate = template.Must(template.New("block").Parse(`// Read version from {{.ManifestFile}}
import groovy.json.JsonSlurper
def getAppVersion() {
    def appJsonFile = file("$projectRoot/{{.ManifestFile}}")
    def appJson = new JsonSlurper().parseText(appJsonFile.text)
    return appJson.{{.VersionPath}}
}

def getVersionCode() {
    def version = getAppVersion()
    // Convert version string "0.0.1" to version code
    // Example: "0.0.1" -> 1, "0.0.2" -> 2, "1.0.0" -> 10000
    def parts = version.tokenize('.')
    return (parts[0].toInteger() * 10000) + (parts[1].toInteger() * 100) + parts[2].toInteger()
}`))

type blockData struct {
	ManifestFile string
	VersionPath  string
}

// renderBlock returns the Groovy block as lines, without the surrounding
// blank lines.
func renderBlock(manifestFile, versionPath string) ([]string, error) {
	var buf bytes.Buffer
	err := blockTemplate.Execute(&buf, blockData{
		ManifestFile: manifestFile,
		VersionPath:  versionPath,
	})
	if err != nil {
		return nil, fmt.Errorf("rendering version block: %w", err)
	}
	return strings.Split(buf.String(), "\n"), nil
}

// blockState describes the injected functions found in content.
type blockState int

const (
	blockAbsent blockState = iota
	blockPresent
	// one function missing or either defined more than once
	blockConflict
)

func inspectBlock(content string) blockState {
	app := strings.Count(content, appVersionFunc)
	code := strings.Count(content, versionCodeFunc)
	switch {
	case app == 0 && code == 0:
		return blockAbsent
	case app == 1 && code == 1:
		return blockPresent
	default:
		return blockConflict
	}
}

// blockConflictError names the functions that prevent a clean injection.
func blockConflictError(content string) error {
	var problems []string
	for _, fn := range []string{appVersionFunc, versionCodeFunc} {
		switch n := strings.Count(content, fn); {
		case n == 0:
			problems = append(problems, fn+" is missing")
		case n > 1:
			problems = append(problems, fmt.Sprintf("%s is defined %d times", fn, n))
		}
	}
	return fmt.Errorf("%w: %s", ErrBlockConflict, strings.Join(problems, ", "))
}
