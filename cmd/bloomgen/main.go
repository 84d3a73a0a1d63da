package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/dgallion1/bloomgen/internal/blooms"
	"github.com/dgallion1/bloomgen/internal/config"
	"github.com/dgallion1/bloomgen/internal/export"
	"github.com/dgallion1/bloomgen/internal/llm"
	"github.com/dgallion1/bloomgen/internal/logger"
	"github.com/dgallion1/bloomgen/internal/parser"
	"github.com/dgallion1/bloomgen/internal/pipeline"
	"github.com/dgallion1/bloomgen/internal/questions"
	"github.com/dgallion1/bloomgen/internal/session"
)

type options struct {
	file     string
	subject  string
	kind     string
	count    int
	weights  string
	example  string
	out      string
	format   string
	template string
	cos      string
	pos      string
	marks    int
}

func main() {
	var o options
	flag.StringVar(&o.file, "file", "", "syllabus document (pdf, docx, csv, txt, md, html, xlsx)")
	flag.StringVar(&o.subject, "subject", "", "subject name")
	flag.StringVar(&o.kind, "kind", "short", "question kind: mcq, short, long or assignment")
	flag.IntVar(&o.count, "count", 10, "number of questions")
	flag.StringVar(&o.weights, "weights", "", `bucket percentages, e.g. "Understand=30,Apply=30,Analyze/Evaluate=40"`)
	flag.StringVar(&o.example, "example", "", "example of the expected question format")
	flag.StringVar(&o.out, "out", "", "output path; the extension picks docx or xlsx (default: OUTPUT_DIR with a generated name)")
	flag.StringVar(&o.format, "format", "docx", "export format when -out is not set")
	flag.StringVar(&o.template, "template", "", "DOCX template with {{PLACEHOLDER}} fields (default: EXPORT_TEMPLATE)")
	flag.StringVar(&o.cos, "cos", "", "comma-separated course outcomes")
	flag.StringVar(&o.pos, "pos", "", "comma-separated program outcomes")
	flag.IntVar(&o.marks, "marks", 0, "marks per question (default: per kind)")
	flag.Parse()

	if err := run(o); err != nil {
		fmt.Fprintf(os.Stderr, "bloomgen: %v\n", err)
		os.Exit(1)
	}
}

func usageError(msg string) error {
	flag.Usage()
	return fmt.Errorf("usage: %s", msg)
}

func run(o options) error {
	switch {
	case o.file == "":
		return usageError("-file is required")
	case strings.TrimSpace(o.subject) == "":
		return usageError("-subject is required")
	case strings.TrimSpace(o.example) == "":
		return usageError("-example is required")
	}

	kind, err := questions.ParseKind(o.kind)
	if err != nil {
		return usageError(err.Error())
	}
	var weights blooms.Weights
	if o.weights != "" {
		if weights, err = blooms.ParseWeights(o.weights); err != nil {
			return usageError(err.Error())
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.ValidateGeneration(); err != nil {
		return err
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	data, err := os.ReadFile(o.file)
	if err != nil {
		return fmt.Errorf("read syllabus: %w", err)
	}
	extractor := &parser.Extractor{
		Options: parser.Options{PDFFallbackPdftotext: cfg.PDFFallbackPdftotext},
		OnError: func(filename string, err error) {
			log.Warn("text extraction failed", "filename", filename, "error", err)
		},
	}
	text := extractor.ExtractText(data, filepath.Base(o.file))

	completer, err := llm.FromConfig(cfg, llm.NewStats(cfg.LLMStatsWindow), log)
	if err != nil {
		return err
	}
	summarizer := questions.NewSummarizer(completer, log)
	summarizer.Chunking.MaxChunk = cfg.ChunkSize
	summarizer.Chunking.Overlap = cfg.ChunkOverlap
	summarizer.MaxChunks = cfg.MaxSummaryChunks
	summarizer.MaxWords = cfg.SummaryMaxWords
	generator := questions.NewGenerator(completer, cfg.BatchSize, log)
	generator.Params.Temperature = cfg.LLMTemperature
	generator.Params.MaxOutputTokens = cfg.LLMMaxOutputTokens
	pipe := pipeline.New(summarizer, generator, cfg.MaxQuestions, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, res, err := pipe.Run(ctx, session.New(os.Getenv("USER"), "Educator"), questions.Request{
		Subject:  strings.TrimSpace(o.subject),
		Syllabus: text,
		Kind:     kind,
		Count:    o.count,
		Weights:  weights,
		Example:  o.example,
		COs:      splitList(o.cos),
		POs:      splitList(o.pos),
		Marks:    o.marks,
	})
	if err != nil {
		return err
	}

	templatePath := o.template
	if templatePath == "" {
		templatePath = cfg.ExportTemplate
	}
	var template []byte
	if templatePath != "" {
		if template, err = os.ReadFile(templatePath); err != nil {
			return fmt.Errorf("read template: %w", err)
		}
	}

	path, err := write(ctx, o, cfg.OutputDir, template, res)
	if err != nil {
		return err
	}
	fmt.Printf("wrote %d %s (%d filler, %d completion calls) to %s\n",
		len(res.Records), kind.Noun(), res.Fillers, res.Calls, path)
	return nil
}

// write renders res to o.out, or into outputDir under the generated name.
func write(ctx context.Context, o options, outputDir string, template []byte, res *questions.Result) (string, error) {
	subs := export.DefaultSubstitutions(res, time.Now())
	if o.out == "" {
		wr, err := export.ForExt(o.format, template)
		if err != nil {
			return "", err
		}
		return (&export.Exporter{Dir: outputDir}).Export(ctx, wr, subs, res)
	}

	wr, err := export.ForExt(filepath.Ext(o.out), template)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(o.out), 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(o.out)
	if err != nil {
		return "", err
	}
	if err := wr.Write(f, subs, res); err != nil {
		f.Close()
		return "", err
	}
	return o.out, f.Close()
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
