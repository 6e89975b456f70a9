package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"htmlpdf/boxes"
	"htmlpdf/config"
	"htmlpdf/css"
	"htmlpdf/layout"
	"htmlpdf/markup"
	"htmlpdf/render"
	"htmlpdf/state"
)

// Run is the action of convert command.
func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("convert")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	if src, err = filepath.Abs(src); err != nil {
		return err
	}
	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		return errors.New("no output destination has been specified")
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Mailformed command line, too many arguments", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	doc := &env.Cfg.Document
	if s := cmd.String("page-size"); len(s) > 0 {
		if doc.PageSize, err = config.ParsePageSize(s); err != nil {
			return fmt.Errorf("unable to use requested page size: %w", err)
		}
	}
	if s := cmd.String("backend"); len(s) > 0 {
		if doc.Backend, err = config.ParseBackend(s); err != nil {
			return fmt.Errorf("unable to use requested backend: %w", err)
		}
	}
	env.Overwrite = cmd.Bool("overwrite")

	if err := env.LoadResources(); err != nil {
		return err
	}

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst),
		zap.Stringer("backend", doc.Backend), zap.Stringer("page", doc.PageSize))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return process(ctx, src, dst, log)
}

// geometry returns page geometry selected by configuration.
func geometry(doc *config.DocumentConfig) layout.Geometry {
	size, ok := layout.NamedSize(doc.PageSize.String())
	if !ok {
		size = layout.A4
	}
	m := doc.Margins
	return layout.NewGeometry(size, layout.Margins{Top: m.Top, Right: m.Right, Bottom: m.Bottom, Left: m.Left})
}

func ruleMode(mode config.RuleMode) layout.RuleMode {
	if mode == config.RuleModeGaps {
		return layout.RuleGaps
	}
	return layout.RuleLine
}

// process converts single markup file src. Output goes to dst, when dst is
// a directory output name is derived from the document.
func process(ctx context.Context, src, dst string, log *zap.Logger) (rerr error) {
	env := state.EnvFromContext(ctx)
	doc := &env.Cfg.Document

	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	log = log.With(zap.Stringer("id", id))

	var outputName string
	log.Info("Conversion starting", zap.String("from", src))
	defer func(start time.Time) {
		if r := recover(); r != nil {
			log.Error("Conversion ended with panic",
				zap.Any("panic", r), zap.Duration("elapsed", time.Since(start)), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("conversion panic: %v", r)
		} else if rerr == nil {
			log.Info("Conversion completed", zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName))
		}
	}(time.Now())

	data, err := readInput(src)
	if err != nil {
		return err
	}
	data, enc, err := decodeInput(data)
	if err != nil {
		return err
	}
	log.Debug("Input decoded", zap.String("encoding", enc), zap.Int("size", len(data)))
	env.Rpt.StoreData("source/"+filepath.Base(src), data)

	tree, err := markup.Parse(ctx, bytes.NewReader(data), log)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: unable to parse markup: %w", ErrInputUnreadable, err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	resolver := css.NewResolver(css.NewDefaults(doc.DefaultStyles), stylesheets(env.UserStyle, tree, log), log)

	backend, err := render.New(doc.Backend, env.Fonts, log)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRenderingUnavailable, err)
	}

	root := boxes.NewBuilder(resolver, boxes.NewShaper(env.Fonts.FaceFamily()), log).Build(tree.Root)
	if env.Rpt != nil {
		env.Rpt.StoreData("boxes.txt", boxes.Dump(root))
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	geom := geometry(doc)
	instrs := layout.NewEngine(backend.Measurer(), layout.Options{Leading: doc.Leading, Rule: ruleMode(doc.RuleMode)}, log).Paginate(root, geom)
	if env.Rpt != nil {
		env.Rpt.StoreData("drawlist.txt", layout.Dump(instrs))
	}

	outputName = buildOutputPath(tree.Title, src, dst, env)
	if err := prepareOutputPath(outputName, env, log); err != nil {
		return err
	}

	meta := render.Meta{Creator: doc.Metainformation.Creator, Title: documentTitle(tree.Title, src, doc, log)}
	if err := backend.Render(ctx, instrs, geom, meta, outputName); err != nil {
		switch {
		case ctx.Err() != nil:
			return ctx.Err()
		case errors.Is(err, render.ErrWrite):
			return fmt.Errorf("%w: %w", ErrOutputWriteFailed, err)
		default:
			return fmt.Errorf("%w: %w", ErrRenderingUnavailable, err)
		}
	}
	log.Debug("Output rendered", zap.Int("pages", layout.Pages(instrs)), zap.Int("instructions", len(instrs)))

	env.Rpt.Store("result"+doc.Backend.Ext(), outputName)
	return nil
}

// documentTitle expands configured title template, falling back to the plain
// title.
func documentTitle(title, src string, doc *config.DocumentConfig, log *zap.Logger) string {
	if len(doc.Metainformation.TitleTemplate) == 0 {
		return title
	}
	expanded, err := expandTemplate(config.TitleTemplateFieldName, doc.Metainformation.TitleTemplate, newValues(title, src, doc))
	if err != nil {
		log.Warn("Unable to prepare document title", zap.Error(err))
		return title
	}
	return strings.TrimSpace(expanded)
}

// stylesheets parses user stylesheet followed by document style blocks, in
// order, so later rules override earlier ones.
func stylesheets(user []byte, tree *markup.Document, log *zap.Logger) *css.RuleSet {
	parser := css.NewParser(log)
	rules := css.NewRuleSet()
	if len(user) > 0 {
		rules.Add(parser.Parse(user, "user stylesheet"))
	}
	for i, s := range tree.Stylesheets {
		rules.Add(parser.Parse([]byte(s), fmt.Sprintf("style block %d", i+1)))
	}
	return rules
}
