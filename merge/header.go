package merge

import (
	"strings"

	"github.com/minios-linux/pomerge/langmeta"
)

// Known header fields, in the fixed order they are written back out.
const (
	fieldProjectID = iota
	fieldBugsTo
	fieldPOTDate
	fieldRevisionDate
	fieldTranslator
	fieldTeam
	fieldLanguage
	fieldMIME
	fieldContentType
	fieldTransferEncoding
	numKnownFields
)

var knownFieldNames = [numKnownFields]string{
	fieldProjectID:        "Project-Id-Version:",
	fieldBugsTo:           "Report-Msgid-Bugs-To:",
	fieldPOTDate:          "POT-Creation-Date:",
	fieldRevisionDate:     "PO-Revision-Date:",
	fieldTranslator:       "Last-Translator:",
	fieldTeam:             "Language-Team:",
	fieldLanguage:         "Language:",
	fieldMIME:             "MIME-Version:",
	fieldContentType:      "Content-Type:",
	fieldTransferEncoding: "Content-Transfer-Encoding:",
}

// reconcileHeader merges the header msgstr: known fields are split out
// of the definition header, Report-Msgid-Bugs-To and POT-Creation-Date
// are overridden from the reference so they always track the current
// source, the Language field is set from catalogName or synthesized
// from Language-Team, and unknown lines are preserved verbatim after
// the known fields. Every field value stays newline-terminated.
//
// A duplicate occurrence of a known field falls through to the unknown
// bucket: first occurrence wins.
func reconcileHeader(defHeader, refHeader, catalogName string) string {
	var fields [numKnownFields]string
	var unknown strings.Builder

	for _, line := range headerLines(defHeader) {
		cnt := matchKnownField(line)
		if cnt >= 0 && fields[cnt] == "" {
			fields[cnt] = line[len(knownFieldNames[cnt]):]
		} else {
			unknown.WriteString(line)
		}
	}

	if catalogName != "" {
		fields[fieldLanguage] = " " + catalogName + "\n"
	} else if fields[fieldLanguage] == "" {
		// PO files from before gettext 0.18 lack a Language field;
		// derive one from the Language-Team name when possible.
		if team := fields[fieldTeam]; team != "" {
			fields[fieldLanguage] = languageFromTeam(team)
		}
	}

	if v := refFieldValue(refHeader, knownFieldNames[fieldBugsTo]); v != "" {
		fields[fieldBugsTo] = v
	}
	if v := refFieldValue(refHeader, knownFieldNames[fieldPOTDate]); v != "" {
		fields[fieldPOTDate] = v
	}

	var out strings.Builder
	for cnt := 0; cnt < numKnownFields; cnt++ {
		if fields[cnt] != "" {
			out.WriteString(knownFieldNames[cnt])
			out.WriteString(fields[cnt])
		}
	}
	out.WriteString(unknown.String())
	return out.String()
}

// headerLines splits a header msgstr into newline-terminated lines,
// appending the missing terminator to an unterminated last line.
func headerLines(header string) []string {
	var lines []string
	for header != "" {
		idx := strings.IndexByte(header, '\n')
		if idx < 0 {
			lines = append(lines, header+"\n")
			break
		}
		lines = append(lines, header[:idx+1])
		header = header[idx+1:]
	}
	return lines
}

// matchKnownField returns the known-field index the line starts with,
// or -1. The comparison is case-insensitive like the PO conventions.
func matchKnownField(line string) int {
	for cnt := 0; cnt < numKnownFields; cnt++ {
		name := knownFieldNames[cnt]
		if len(line) >= len(name) && strings.EqualFold(line[:len(name)], name) {
			return cnt
		}
	}
	return -1
}

// refFieldValue extracts a field's newline-terminated value from the
// reference header, or "" when the field is absent.
func refFieldValue(refHeader, name string) string {
	idx := strings.Index(refHeader, name)
	if idx < 0 {
		return ""
	}
	rest := refHeader[idx+len(name):]
	if end := strings.IndexByte(rest, '\n'); end >= 0 {
		return rest[:end+1]
	}
	return rest + "\n"
}

// languageFromTeam synthesizes a Language field value from the English
// language name in a Language-Team field. A trailing word that looks
// like a URL or email address is trimmed first. The result is " code\n"
// on success and " \n" when the name is not recognized.
func languageFromTeam(team string) string {
	name := strings.Trim(strings.TrimSuffix(team, "\n"), " \t")

	// Trim the last word if it looks like an URL or email address.
	if name != "" {
		i := strings.LastIndexAny(name, " \t")
		last := name[i+1:]
		if last != "" &&
			(strings.HasPrefix(last, "<") || strings.HasSuffix(name, ">") ||
				strings.ContainsAny(name, "@/")) {
			if i < 0 {
				name = ""
			} else {
				name = strings.TrimRight(name[:i], " \t")
			}
		}
	}

	if code, ok := langmeta.CodeForEnglishName(name); ok {
		return " " + code + "\n"
	}
	return " \n"
}
