package logger

import (
	"io"
	"log"
	"strings"
	"sync"
)

var (
	oracleMu   sync.Mutex
	oracleLog  *log.Logger
	dumpOracle bool
)

// SetOracleWriter directs raw oracle request/response dumps to w.
// A nil writer disables dumping entirely.
func SetOracleWriter(w io.Writer) {
	oracleMu.Lock()
	defer oracleMu.Unlock()
	if w == nil {
		oracleLog = nil
		return
	}
	oracleLog = log.New(w, "", log.LstdFlags)
}

func EnableOracleDump(enabled bool) {
	oracleMu.Lock()
	dumpOracle = enabled
	oracleMu.Unlock()
}

type oracleSection struct {
	Title string
	Body  string
}

func logOracle(kind string, sections []oracleSection) {
	oracleMu.Lock()
	l := oracleLog
	enabled := dumpOracle
	oracleMu.Unlock()
	if l == nil || !enabled {
		return
	}
	var b strings.Builder
	b.WriteString("[ORACLE][")
	b.WriteString(kind)
	b.WriteString("]\n")
	for _, sec := range sections {
		title := strings.TrimSpace(sec.Title)
		if title == "" {
			title = "CONTENT"
		}
		b.WriteString("--- ")
		b.WriteString(title)
		b.WriteString(" ---\n")
		b.WriteString(sec.Body)
		if !strings.HasSuffix(sec.Body, "\n") {
			b.WriteString("\n")
		}
	}
	b.WriteString("=====\n")
	l.Print(b.String())
}

func LogOracleRequest(systemPrompt, userPrompt string) {
	logOracle("REQUEST", []oracleSection{
		{Title: "SYSTEM", Body: systemPrompt},
		{Title: "USER", Body: userPrompt},
	})
}

func LogOracleResponse(raw string) {
	logOracle("RESPONSE", []oracleSection{
		{Title: "RAW", Body: raw},
	})
}
