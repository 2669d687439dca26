package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"resume-builder/internal/usecase"
	"resume-builder/pkg/latexonline"
)

// startMockCompiler serves a stand-in for the compile service. Markup that
// contains \fail is rejected the way the real service reports LaTeX errors.
func startMockCompiler(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/compile", func(w http.ResponseWriter, r *http.Request) {
		text := r.URL.Query().Get("text")
		if text == "" {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, "no text given")
			return
		}
		if strings.Contains(text, `\fail`) {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, "! Undefined control sequence.\nl.3 \\fail")
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		fmt.Fprintf(w, "%%PDF-1.5\n%% mock rendering of %d bytes of markup\n%%%%EOF\n", len(text))
	})

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("mock compile server failed", "error", err)
			os.Exit(1)
		}
	}()
	return srv
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	srv := startMockCompiler("127.0.0.1:8001")
	defer srv.Shutdown(context.Background())
	time.Sleep(100 * time.Millisecond)

	compiler := usecase.NewCompiler(latexonline.NewClient("http://127.0.0.1:8001/compile", nil), logger)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	inputs := []string{
		"\\documentclass{article}\n\\begin{document}\nHello, 100% world!\n\\end{document}",
		"\\documentclass{article}\n\\begin{document}\n\\fail\n\\end{document}",
		"",
	}
	for _, in := range inputs {
		doc, err := compiler.Compile(ctx, in)
		var ce *usecase.CompileError
		switch {
		case errors.As(err, &ce):
			fmt.Printf("compile failed: %s (details: %q)\n", ce.Message(), ce.Detail())
		case err != nil:
			fmt.Printf("compile failed: %v\n", err)
		default:
			fmt.Printf("compiled %s: %d bytes of %s\n", doc.FileName, len(doc.Data), doc.ContentType)
		}
	}
}
