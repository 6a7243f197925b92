package compiler

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"ngc-template/packages/compiler/src/config"
	"ngc-template/packages/compiler/src/render3/view"
	"ngc-template/packages/compiler/src/util"
)

// TsConfigName is the project file NewCompiler looks for in the project root.
const TsConfigName = "tsconfig.json"

var (
	componentRe   = regexp.MustCompile(`@Component\s*\(\s*\{([\s\S]*?)\}\s*\)`)
	classRe       = regexp.MustCompile(`export\s+(?:default\s+)?class\s+(\w+)`)
	templateRe    = regexp.MustCompile(`template\s*:\s*(?:` + "`" + `([\s\S]*?)` + "`" + `|'([^']*)'|"([^"]*)")`)
	templateUrlRe = regexp.MustCompile(`templateUrl\s*:\s*['"]([^'"]+)['"]`)
)

// Template is one template of a project.
type Template struct {
	// Path is the file the template text was read from.
	Path string
	// Component is the class declaring the template; empty for an .html file
	// no component refers to.
	Component string
	// Inline is set for templates written in the component decorator.
	Inline bool
	Source string
}

// URL identifies the template in diagnostics.
func (t Template) URL() string {
	if t.Inline {
		return t.Path + "#" + t.Component
	}
	return t.Path
}

// TemplateResult is the outcome of parsing one template.
type TemplateResult struct {
	Template Template
	Parsed   *view.ParsedTemplate
}

// Result is the outcome of compiling a project.
type Result struct {
	Templates []TemplateResult
}

// Errors returns the parse errors of every template, in template order.
func (r *Result) Errors() []*util.ParseError {
	var errs []*util.ParseError
	for _, t := range r.Templates {
		errs = append(errs, t.Parsed.Errors...)
	}
	return errs
}

// HasErrors reports whether any template has an error-level diagnostic.
func (r *Result) HasErrors() bool {
	return util.HasErrors(r.Errors())
}

type Compiler struct {
	projectRoot string
	tsConfig    *config.TsConfig
	config      *config.CompilerConfig
	concurrency int
}

// NewCompiler creates a compiler for the project at root. Options of a
// tsconfig.json in root take precedence over settings.
func NewCompiler(root string, settings *config.Settings) (*Compiler, error) {
	projectRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving project root: %w", err)
	}

	c := &Compiler{
		projectRoot: projectRoot,
		tsConfig:    &config.TsConfig{},
		config:      settings.Compiler,
		concurrency: settings.Concurrency,
	}
	tsconfigPath := filepath.Join(projectRoot, TsConfigName)
	if _, err := os.Stat(tsconfigPath); err == nil {
		tsConfig, err := config.ParseTsConfig(tsconfigPath)
		if err != nil {
			return nil, err
		}
		c.tsConfig = tsConfig
		c.config = c.config.With(tsConfig.Options()...)
		slog.Debug("using tsconfig", "path", tsconfigPath)
	}
	return c, nil
}

// Config returns the configuration templates are parsed with.
func (c *Compiler) Config() *config.CompilerConfig {
	return c.config
}

// ProjectRoot returns the absolute project root.
func (c *Compiler) ProjectRoot() string {
	return c.projectRoot
}

// DiscoverTemplates finds the templates of the project: inline templates and
// templateUrl files of components declared in .ts files, and every other
// .html file. node_modules, dist and tsconfig excludes are skipped.
func (c *Compiler) DiscoverTemplates() ([]Template, error) {
	byPath := map[string]*Template{}
	var inline []Template

	err := filepath.WalkDir(c.projectRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(c.projectRoot, path)
		if d.IsDir() {
			if c.skipDir(d.Name(), rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if c.tsConfig.Excludes(rel) {
			return nil
		}

		switch {
		case strings.HasSuffix(path, ".ts") && !strings.HasSuffix(path, ".d.ts"):
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			for _, comp := range findComponents(path, string(data)) {
				if comp.Inline {
					inline = append(inline, comp)
					continue
				}
				if existing, ok := byPath[comp.Path]; ok {
					existing.Component = comp.Component
					continue
				}
				tpl := comp
				byPath[comp.Path] = &tpl
			}
		case strings.HasSuffix(path, ".html"):
			if _, ok := byPath[path]; !ok {
				byPath[path] = &Template{Path: path}
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discovering templates: %w", err)
	}

	templates := inline
	for _, tpl := range byPath {
		if tpl.Source == "" {
			data, err := os.ReadFile(tpl.Path)
			if err != nil {
				slog.Warn("skipping unreadable template", "path", tpl.Path, "component", tpl.Component, "error", err)
				continue
			}
			tpl.Source = string(data)
		}
		templates = append(templates, *tpl)
	}
	sort.Slice(templates, func(i, j int) bool {
		if templates[i].Path != templates[j].Path {
			return templates[i].Path < templates[j].Path
		}
		return templates[i].Component < templates[j].Component
	})
	return templates, nil
}

func (c *Compiler) skipDir(name, rel string) bool {
	return name == "node_modules" || name == "dist" || (rel != "." && c.tsConfig.Excludes(rel))
}

// findComponents returns the templates declared by the @Component decorators
// of a .ts file. templateUrl templates are returned without Source.
func findComponents(path, content string) []Template {
	var templates []Template
	for _, match := range componentRe.FindAllStringSubmatchIndex(content, -1) {
		body := content[match[2]:match[3]]
		className := ""
		if m := classRe.FindStringSubmatch(content[match[1]:]); m != nil {
			className = m[1]
		}

		if m := templateRe.FindStringSubmatch(body); m != nil {
			source := m[1] + m[2] + m[3]
			templates = append(templates, Template{Path: path, Component: className, Inline: true, Source: source})
		} else if m := templateUrlRe.FindStringSubmatch(body); m != nil {
			templatePath := filepath.Clean(filepath.Join(filepath.Dir(path), m[1]))
			templates = append(templates, Template{Path: templatePath, Component: className})
		} else {
			slog.Warn("component has no template", "path", path, "component", className)
		}
	}
	return templates
}

// Compile parses templates concurrently. Results keep the order of templates.
func (c *Compiler) Compile(ctx context.Context, templates []Template) (*Result, error) {
	results := make([]TemplateResult, len(templates))
	options := c.config.TemplateOptions()

	g, ctx := errgroup.WithContext(ctx)
	if c.concurrency > 0 {
		g.SetLimit(c.concurrency)
	}
	for i, tpl := range templates {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			parsed := view.ParseTemplate(tpl.Source, tpl.URL(), options)
			results[i] = TemplateResult{Template: tpl, Parsed: parsed}
			slog.Debug("parsed template", "url", tpl.URL(), "nodes", len(parsed.Nodes), "errors", len(parsed.Errors))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("compiling templates: %w", err)
	}
	return &Result{Templates: results}, nil
}

// CompileProject discovers and compiles every template of the project.
func (c *Compiler) CompileProject(ctx context.Context) (*Result, error) {
	templates, err := c.DiscoverTemplates()
	if err != nil {
		return nil, err
	}
	slog.Info("compiling templates", "root", c.projectRoot, "templates", len(templates))
	return c.Compile(ctx, templates)
}
