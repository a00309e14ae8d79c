package compose

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/ByLCY/caption/binding"
	"github.com/ByLCY/caption/dsl"
	"github.com/ByLCY/caption/fonts"
	"github.com/ByLCY/caption/layout"
	"github.com/ByLCY/caption/raster"
	"github.com/ByLCY/caption/renderer"
)

// BuildOptions 控制脚本执行时使用的文本后端与资源目录。
type BuildOptions struct {
	Shaper  renderer.Shaper
	BaseDir string // 解析底图与图片相对路径的目录
}

type resourceSet struct {
	Fonts  map[string]layout.FontResource
	Colors map[string]color.Color
	Images map[string]imageResource
}

type imageResource struct {
	Name   string
	Src    string
	Width  int
	Height int
}

// ErrUnknownArgument 表示命令中出现了无法识别的参数名。
var ErrUnknownArgument = errors.New("compose: 未知的命令参数")

// 命令参数中作为键出现的名字，出现在第一个位置时不会被当作资源名。
var argKeys = map[string]bool{
	"at": true, "size": true, "margin": true, "color": true, "angle": true,
	"font": true, "src": true, "width": true, "height": true,
}

// Build 在新建的 Layout 上执行脚本中的 canvas 段落，data 用于 ${path} 插值。
func Build(doc *dsl.Document, data any, opts BuildOptions) (*Layout, error) {
	if doc == nil {
		return nil, fmt.Errorf("compose: 文档为空")
	}
	if opts.Shaper == nil {
		return nil, fmt.Errorf("compose: 缺少文本后端 Shaper")
	}

	res, err := collectResources(doc)
	if err != nil {
		return nil, err
	}
	section := firstCanvas(doc)
	if section == nil {
		return nil, fmt.Errorf("文档中缺少 canvas 段落")
	}

	canvasOpts, err := parseCanvasParams(section.Params, res, data)
	if err != nil {
		return nil, err
	}
	canvasOpts.BaseDir = opts.BaseDir

	l, err := New(opts.Shaper, canvasOpts)
	if err != nil {
		return nil, err
	}
	l.SetMeta(collectMeta(doc))

	if section.Block == nil {
		return l, nil
	}
	if err := processBlock(section.Block, l, res, data); err != nil {
		return nil, err
	}
	return l, nil
}

// processBlock 依次执行 text 与 image 命令，其余命令记录后忽略。
func processBlock(block *dsl.Block, l *Layout, res resourceSet, data any) error {
	for _, stmt := range block.Statements {
		if stmt.Command == nil {
			continue
		}
		cmd := stmt.Command
		var err error
		switch strings.ToLower(cmd.Name) {
		case "text":
			err = handleText(cmd, l, res, data)
		case "image":
			err = handleImage(cmd, l, res, data)
		default:
			Logger().Warn("忽略未知命令", "command", cmd.Name, "line", cmd.Pos.Line)
			continue
		}
		if err != nil {
			return fmt.Errorf("第 %d 行 %s: %w", cmd.Pos.Line, cmd.Name, err)
		}
	}
	return nil
}

func handleText(cmd *dsl.Command, l *Layout, res resourceSet, data any) error {
	args, err := parseArgs(cmd.Args)
	if err != nil {
		return err
	}
	fontName := args.Name
	if v := args.Attrs["font"]; v != "" {
		fontName = v
	}
	font, err := resolveFontResource(fontName, res)
	if err != nil {
		return err
	}

	t := Text{
		Content: binding.Interpolate(extractText(cmd.Block), data),
		Font:    font,
	}
	if t.Position, err = parsePosition(args.At); err != nil {
		return err
	}
	if v := args.Attrs["size"]; v != "" {
		length, ok := layout.ParseLength(v)
		if !ok {
			return fmt.Errorf("字号 %q 无法解析", v)
		}
		if length.ToPT() <= 0 {
			return fmt.Errorf("字号 %s 必须为正数", length)
		}
		t.Size = length.ToPT()
	}
	if t.Margin, err = parsePixels("margin", args.Attrs["margin"]); err != nil {
		return err
	}
	if v := args.Attrs["angle"]; v != "" {
		if t.Angle, err = strconv.ParseFloat(v, 64); err != nil {
			return fmt.Errorf("角度 %q 无法解析", v)
		}
	}
	if v := args.Attrs["color"]; v != "" {
		if t.Color, err = resolveColor(v, res); err != nil {
			return err
		}
	}
	return l.SetText(t)
}

func handleImage(cmd *dsl.Command, l *Layout, res resourceSet, data any) error {
	args, err := parseArgs(cmd.Args)
	if err != nil {
		return err
	}
	img, ok := res.Images[args.Name]
	if !ok {
		img = imageResource{Src: args.Name}
	}
	if v := args.Attrs["src"]; v != "" {
		img.Src = v
	}
	if img.Src == "" {
		return fmt.Errorf("图片缺少 src")
	}

	e := Embed{Src: binding.Interpolate(img.Src, data), Width: img.Width, Height: img.Height}
	if e.Position, err = parsePosition(args.At); err != nil {
		return err
	}
	if e.Margin, err = parsePixels("margin", args.Attrs["margin"]); err != nil {
		return err
	}
	for _, key := range []string{"width", "height"} {
		v, err := parsePixels(key, args.Attrs[key])
		if err != nil {
			return err
		}
		if v <= 0 {
			continue
		}
		if key == "width" {
			e.Width = int(v)
		} else {
			e.Height = int(v)
		}
	}
	return l.EmbedImage(e)
}

// parseCanvasParams 解析 canvas 段落参数：开头的两个数字为宽高，之后为 src/background/format 键值。
func parseCanvasParams(params []*dsl.Lexeme, res resourceSet, data any) (Options, error) {
	var opts Options
	tokens := normalizeArgs(params)
	cursor := 0
	for _, dst := range []*int{&opts.Width, &opts.Height} {
		if cursor >= len(tokens) || tokens[cursor].Type != "Number" {
			break
		}
		length, ok := layout.ParseLength(tokens[cursor].Value)
		if !ok {
			return opts, fmt.Errorf("canvas 尺寸 %q 无法解析", tokens[cursor].Value)
		}
		if length.ToPX() < 1 {
			return opts, fmt.Errorf("canvas 尺寸 %s 无效", length)
		}
		*dst = int(length.ToPX())
		cursor++
	}

	for cursor < len(tokens) {
		key := strings.ToLower(tokens[cursor].Value)
		if cursor+1 >= len(tokens) {
			return opts, fmt.Errorf("canvas 参数 %s 缺少取值", key)
		}
		val := tokens[cursor+1].Value
		switch key {
		case "src":
			opts.Base = binding.Interpolate(val, data)
		case "background":
			c, err := resolveColor(val, res)
			if err != nil {
				return opts, err
			}
			opts.Background = c
		case "format":
			f, err := raster.ParseFormat(val)
			if err != nil {
				return opts, err
			}
			opts.Format = f
		default:
			return opts, fmt.Errorf("未知的 canvas 参数 %s", key)
		}
		cursor += 2
	}
	return opts, nil
}

type commandArgs struct {
	Name  string
	At    []string
	Attrs map[string]string
}

// parseArgs 把命令参数拆成可选的资源名、at 后的两个位置槽位和其余键值对。
func parseArgs(args []*dsl.Lexeme) (commandArgs, error) {
	out := commandArgs{Attrs: map[string]string{}}
	tokens := normalizeArgs(args)
	if len(tokens) == 0 {
		return out, nil
	}

	cursor := 0
	first := tokens[0]
	if first.Type == "String" || (first.Type == "Ident" && !argKeys[strings.ToLower(first.Value)]) {
		out.Name = first.Value
		cursor = 1
	}

	for cursor < len(tokens) {
		key := strings.ToLower(tokens[cursor].Value)
		if key == "at" {
			if cursor+2 >= len(tokens) {
				return out, fmt.Errorf("at 需要两个位置参数: %w", layout.ErrInvalidPositionSpec)
			}
			out.At = []string{tokens[cursor+1].Value, tokens[cursor+2].Value}
			cursor += 3
			continue
		}
		if !argKeys[key] {
			return out, fmt.Errorf("%w: %s", ErrUnknownArgument, tokens[cursor].Value)
		}
		if cursor+1 >= len(tokens) {
			return out, fmt.Errorf("参数 %s 缺少取值", key)
		}
		out.Attrs[key] = tokens[cursor+1].Value
		cursor += 2
	}
	return out, nil
}

// normalizeArgs 丢弃 = 与 , 分隔符，并把 "-" 与其后的数字合并为负数。
func normalizeArgs(args []*dsl.Lexeme) []*dsl.Lexeme {
	out := make([]*dsl.Lexeme, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg.Type == "Symbol" {
			switch arg.Value {
			case "=", ",":
				continue
			case "-":
				if i+1 < len(args) && args[i+1].Type == "Number" {
					merged := *args[i+1]
					merged.Value = "-" + merged.Value
					merged.Raw = "-" + merged.Raw
					out = append(out, &merged)
					i++
					continue
				}
			}
		}
		out = append(out, arg)
	}
	return out
}

func parsePosition(at []string) (layout.Position, error) {
	if at == nil {
		return layout.Position{}, nil
	}
	values := make([]string, len(at))
	for i, v := range at {
		if length, ok := layout.ParseLength(v); ok {
			v = strconv.FormatFloat(length.ToPX(), 'f', -1, 64)
		}
		values[i] = v
	}
	return layout.ParsePosition(values...)
}

func parsePixels(name, value string) (float64, error) {
	if value == "" {
		return 0, nil
	}
	length, ok := layout.ParseLength(value)
	if !ok {
		return 0, fmt.Errorf("%s %q 无法解析", name, value)
	}
	return length.ToPX(), nil
}

func extractText(block *dsl.Block) string {
	if block == nil {
		return ""
	}
	var parts []string
	for _, stmt := range block.Statements {
		if stmt.Text != nil {
			parts = append(parts, string(stmt.Text.Value))
		}
	}
	return strings.Join(parts, " ")
}

// resolveFontResource 按名字查找字体资源；路径或 embed: 形式的值直接作为 src。
// 名字为空时使用 Body，或唯一声明的字体。
func resolveFontResource(name string, res resourceSet) (layout.FontResource, error) {
	if name == "" {
		if f, ok := res.Fonts["Body"]; ok {
			return f, nil
		}
		if len(res.Fonts) == 1 {
			for _, f := range res.Fonts {
				return f, nil
			}
		}
		return layout.FontResource{}, fmt.Errorf("未指定字体: %w", layout.ErrMissingFont)
	}
	if f, ok := res.Fonts[name]; ok {
		return f, nil
	}
	if looksLikeFontSource(name) {
		return layout.FontResource{Name: name, Src: name}, nil
	}
	return layout.FontResource{}, fmt.Errorf("未定义的字体 %s: %w", name, layout.ErrMissingFont)
}

func looksLikeFontSource(v string) bool {
	lower := strings.ToLower(v)
	for _, prefix := range []string{"embed:", "builtin:", "built-in:"} {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return strings.ContainsAny(v, "./\\")
}

func collectResources(doc *dsl.Document) (resourceSet, error) {
	res := resourceSet{
		Fonts:  map[string]layout.FontResource{},
		Colors: map[string]color.Color{},
		Images: map[string]imageResource{},
	}

	for _, section := range doc.Sections {
		if section.Resources == nil || section.Resources.Block == nil {
			continue
		}
		for _, stmt := range section.Resources.Block.Statements {
			if stmt.Command == nil {
				continue
			}
			switch stmt.Command.Name {
			case "font":
				font := parseFontResource(stmt.Command)
				if font.Name != "" {
					res.Fonts[font.Name] = font
				}
			case "color":
				name, value := parseColorResource(stmt.Command)
				if name == "" || value == "" {
					continue
				}
				c, err := parseColor(value)
				if err != nil {
					return res, fmt.Errorf("颜色资源 %s: %w", name, err)
				}
				res.Colors[name] = c
			case "image":
				img, err := parseImageResource(stmt.Command)
				if err != nil {
					return res, err
				}
				if img.Name != "" {
					res.Images[img.Name] = img
				}
			}
		}
	}

	if len(res.Fonts) == 0 {
		res.Fonts["Body"] = layout.FontResource{
			Name: "Body",
			Src:  "embed:" + fonts.Default,
		}
	}
	return res, nil
}

func collectMeta(doc *dsl.Document) layout.Meta {
	var meta layout.Meta
	for _, section := range doc.Sections {
		if section.Meta == nil || section.Meta.Block == nil {
			continue
		}
		for _, stmt := range section.Meta.Block.Statements {
			if stmt.Assignment == nil {
				continue
			}
			switch strings.ToLower(stmt.Assignment.Key) {
			case "title":
				meta.Title = valueToString(stmt.Assignment.Value)
			case "author":
				meta.Author = valueToString(stmt.Assignment.Value)
			}
		}
	}
	return meta
}

func parseFontResource(cmd *dsl.Command) layout.FontResource {
	if len(cmd.Args) == 0 {
		return layout.FontResource{}
	}
	font := layout.FontResource{Name: cmd.Args[0].Value}
	if cmd.Block == nil {
		return font
	}
	for _, stmt := range cmd.Block.Statements {
		if stmt.Assignment == nil {
			continue
		}
		switch stmt.Assignment.Key {
		case "src":
			font.Src = valueToString(stmt.Assignment.Value)
		case "style":
			font.Style = valueToString(stmt.Assignment.Value)
		case "fallback":
			font.Fallback = valueToString(stmt.Assignment.Value)
		}
	}
	return font
}

func parseImageResource(cmd *dsl.Command) (imageResource, error) {
	if len(cmd.Args) == 0 {
		return imageResource{}, nil
	}
	img := imageResource{Name: cmd.Args[0].Value}
	if cmd.Block == nil {
		return img, nil
	}
	for _, stmt := range cmd.Block.Statements {
		if stmt.Assignment == nil {
			continue
		}
		switch stmt.Assignment.Key {
		case "src":
			img.Src = valueToString(stmt.Assignment.Value)
		case "width", "height":
			v, err := parsePixels(stmt.Assignment.Key, valueToString(stmt.Assignment.Value))
			if err != nil {
				return img, fmt.Errorf("图片资源 %s: %w", img.Name, err)
			}
			if stmt.Assignment.Key == "width" {
				img.Width = int(v)
			} else {
				img.Height = int(v)
			}
		}
	}
	return img, nil
}

func parseColorResource(cmd *dsl.Command) (string, string) {
	if len(cmd.Args) == 0 {
		return "", ""
	}
	name := cmd.Args[0].Value
	value := ""
	if len(cmd.Args) > 1 {
		value = cmd.Args[len(cmd.Args)-1].Value
	}
	return name, value
}

func resolveColor(value string, res resourceSet) (color.Color, error) {
	if c, ok := res.Colors[value]; ok {
		return c, nil
	}
	if strings.HasPrefix(value, "#") {
		return parseColor(value)
	}
	return nil, fmt.Errorf("未定义的颜色 %s", value)
}

// parseColor 支持 #RGB、#RRGGBB 与带透明度的 #RRGGBBAA。
func parseColor(value string) (color.Color, error) {
	hex := strings.TrimPrefix(value, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 && len(hex) != 8 {
		return nil, fmt.Errorf("颜色值 %s 无法解析", value)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("颜色值 %s 无法解析", value)
	}
	return color.NRGBA{R: uint8(n >> 24), G: uint8(n >> 16), B: uint8(n >> 8), A: uint8(n)}, nil
}

func firstCanvas(doc *dsl.Document) *dsl.CanvasSection {
	for _, section := range doc.Sections {
		if section.Canvas != nil {
			return section.Canvas
		}
	}
	return nil
}

func valueToString(val *dsl.Value) string {
	if val == nil {
		return ""
	}
	switch {
	case val.String != nil:
		return string(*val.String)
	case val.Number != nil:
		return *val.Number
	case val.Color != nil:
		return *val.Color
	case val.Expr != nil:
		var builder strings.Builder
		for _, part := range val.Expr.Parts {
			builder.WriteString(part.Value)
		}
		return builder.String()
	default:
		return ""
	}
}
