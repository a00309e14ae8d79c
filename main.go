package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ByLCY/caption/compose"
	"github.com/ByLCY/caption/dsl"
	"github.com/ByLCY/caption/layout"
	"github.com/ByLCY/caption/renderer"
	canvasrenderer "github.com/ByLCY/caption/renderer/canvas"
	ftrenderer "github.com/ByLCY/caption/renderer/freetype"
)

func main() {
	input := flag.String("in", "examples/banner.caption", "布局脚本路径")
	output := flag.String("out", "output/banner.png", "图片输出路径，- 表示写到标准输出")
	debug := flag.String("debug", "", "布局调试 JSON 输出路径")
	dataJSON := flag.String("data", "", "绑定到脚本的 JSON 数据")
	engine := flag.String("engine", "canvas", "文本后端：canvas 或 freetype")
	verbose := flag.Bool("v", false, "输出调试日志到标准错误")
	flag.Parse()

	if *verbose {
		compose.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	var inputData any
	if *dataJSON != "" {
		if err := json.Unmarshal([]byte(*dataJSON), &inputData); err != nil {
			log.Fatalf("解析 data JSON 失败: %v", err)
		}
	}

	baseDir := filepath.Dir(*input)
	shaper, err := newShaper(*engine, baseDir)
	if err != nil {
		log.Fatal(err)
	}
	if err := run(*input, *output, *debug, baseDir, inputData, shaper); err != nil {
		log.Fatalf("生成图片失败: %v", err)
	}
	if *output != "-" {
		fmt.Fprintf(os.Stderr, "已生成图片：%s\n", *output)
	}
}

func newShaper(engine, baseDir string) (renderer.Shaper, error) {
	switch engine {
	case "canvas":
		return canvasrenderer.NewRenderer(baseDir), nil
	case "freetype":
		return ftrenderer.NewRenderer(baseDir), nil
	default:
		return nil, fmt.Errorf("未知的文本后端 %q", engine)
	}
}

// run 串联解析、合成与输出。
func run(inputPath, outputPath, debugPath, baseDir string, data any, shaper renderer.Shaper) error {
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("无法打开脚本文件 %s: %w", inputPath, err)
	}
	defer file.Close()

	doc, err := dsl.Parse(file)
	if err != nil {
		return fmt.Errorf("解析脚本失败: %w", err)
	}

	l, err := compose.Build(doc, data, compose.BuildOptions{Shaper: shaper, BaseDir: baseDir})
	if err != nil {
		return fmt.Errorf("合成失败: %w", err)
	}

	if debugPath != "" {
		if err := writeDebug(l.Result(), debugPath); err != nil {
			return err
		}
	}

	if outputPath == "-" {
		w := bufio.NewWriter(os.Stdout)
		if err := l.Render(w); err != nil {
			return fmt.Errorf("输出图片失败: %w", err)
		}
		return w.Flush()
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	return l.Save(outputPath)
}

func writeDebug(result *layout.Result, debugPath string) (err error) {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	f, err := os.Create(debugPath)
	if err != nil {
		return fmt.Errorf("创建调试文件失败: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()
	if err := layout.WriteDebugJSON(result, f); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
