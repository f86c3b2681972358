package handlers

import (
	"strconv"
	"strings"
)

// defaultOutputFlag is the {output_flag} expansion used when a tool
// declares no specific one.
var defaultOutputFlag = []string{"-d", "{output}"}

// ExpandTemplate substitutes the {file}, {output} and {output_flag}
// placeholders in a command template. Substitution happens inside
// tokens, so forms like "-o{output}" work. {output_flag} may expand
// to several argv entries.
func ExpandTemplate(template []string, file, output string, outputFlag []string) []string {
	if len(outputFlag) == 0 {
		outputFlag = defaultOutputFlag
	}

	argv := make([]string, 0, len(template)+1)
	for _, part := range template {
		if part == "{output_flag}" {
			for _, flag := range outputFlag {
				argv = append(argv, expandToken(flag, file, output))
			}
			continue
		}
		argv = append(argv, expandToken(part, file, output))
	}
	return argv
}

func expandToken(token, file, output string) string {
	token = strings.ReplaceAll(token, "{file}", file)
	token = strings.ReplaceAll(token, "{output}", output)
	return token
}

// parseLines is the fallback list parser: one entry per non-empty line
func parseLines(output string) []string {
	var entries []string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			entries = append(entries, line)
		}
	}
	return entries
}

// parseUnzipList extracts entry names from unzip -l output. Entry rows
// are "length date time name"; header, separator and summary rows do
// not start with a numeric length. Directory entries end with a slash
// and are skipped.
func parseUnzipList(output string) []string {
	var entries []string
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 4 {
			continue
		}
		if _, err := strconv.Atoi(fields[0]); err != nil {
			continue
		}
		name := strings.Join(fields[3:], " ")
		if strings.HasSuffix(name, "/") {
			continue
		}
		entries = append(entries, name)
	}
	return entries
}
