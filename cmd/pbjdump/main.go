package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/pixelbender/pbj"
)

func main() {
	var (
		pbjFile = flag.String("pbj", "", "Path to Pixel Bender bytecode file (.pbj)")
		asJSON  = flag.Bool("json", false, "Dump the decoded program as JSON")
		listOps = flag.Bool("ops", false, "List decoded operations")
		verbose = flag.Bool("v", false, "Enable debug logging")
	)
	flag.Parse()

	if *pbjFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: pbjdump -pbj <file.pbj> [-ops] [-json] [-v]")
		os.Exit(1)
	}

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		pbj.SetLogger(logger)
	}

	if err := run(*pbjFile, *asJSON, *listOps); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(path string, asJSON, listOps bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	shader, err := pbj.ParseShader(data)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	if asJSON {
		out, err := json.MarshalIndent(shader, "", "  ")
		if err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Printf("Shader: %s (version %d)\n", shader.Name, shader.Version)

	if len(shader.Metadata) > 0 {
		fmt.Println("Metadata:")
		for _, m := range shader.Metadata {
			fmt.Printf("  %s = %v\n", m.Key, m.Value)
		}
	}

	fmt.Printf("Parameters: %d\n", len(shader.Params))
	for _, p := range shader.Params {
		switch p := p.(type) {
		case *pbj.NormalParam:
			fmt.Printf("  %s %s %s (%s)\n", p.Qualifier, p.Type, p.Name, formatRegister(p.Reg))
			for _, m := range p.Metadata {
				fmt.Printf("    %s = %v\n", m.Key, m.Value)
			}
		case *pbj.TextureParam:
			fmt.Printf("  texture %s (sampler %d, %d channels)\n", p.Name, p.Index, p.Channels)
		}
	}

	fmt.Printf("Operations: %d\n", len(shader.Operations))
	if listOps {
		for i, op := range shader.Operations {
			fmt.Printf("  %4d: %s\n", i, formatOperation(op))
		}
	}

	return nil
}

func formatOperation(op pbj.Operation) string {
	switch op := op.(type) {
	case pbj.NopOp:
		return "nop"
	case pbj.NormalOp:
		return fmt.Sprintf("%s %s, %s", op.Opcode, formatRegister(op.Dst), formatRegister(op.Src))
	case pbj.LoadIntOp:
		return fmt.Sprintf("load %s, %d", formatRegister(op.Dst), op.Value)
	case pbj.LoadFloatOp:
		return fmt.Sprintf("load %s, %g", formatRegister(op.Dst), op.Value)
	case pbj.IfOp:
		return fmt.Sprintf("if %s", formatRegister(op.Src))
	case pbj.ElseOp:
		return "else"
	case pbj.EndIfOp:
		return "end_if"
	case pbj.SampleNearestOp:
		return fmt.Sprintf("sample_nearest %s, %s, sampler %d",
			formatRegister(op.Dst), formatRegister(op.Src), op.Sampler)
	case pbj.SampleLinearOp:
		return fmt.Sprintf("sample_linear %s, %s, sampler %d",
			formatRegister(op.Dst), formatRegister(op.Src), op.Sampler)
	}
	return fmt.Sprintf("%T", op)
}

func formatRegister(r pbj.Register) string {
	prefix := "f"
	if r.Kind == pbj.RegisterInt {
		prefix = "i"
	}
	var channels strings.Builder
	for _, c := range r.Channels {
		channels.WriteString(c.String())
	}
	if channels.Len() == 0 {
		return fmt.Sprintf("%s%d", prefix, r.Index)
	}
	return fmt.Sprintf("%s%d.%s", prefix, r.Index, channels.String())
}
