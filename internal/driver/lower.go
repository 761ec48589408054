package driver

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"regen/internal/ast"
	"regen/internal/diag"
	"regen/internal/estree"
	"regen/internal/lower"
	"regen/internal/observ"
	"regen/internal/project"
	"regen/internal/source"
)

// Format selects how lowered trees are written.
type Format string

const (
	// FormatJSON writes ESTree JSON.
	FormatJSON Format = "json"
	// FormatJS writes the JavaScript-like dump.
	FormatJS Format = "js"
)

// ParseFormat accepts "", "json" and "js".
func ParseFormat(s string) (Format, error) {
	switch s {
	case "", string(FormatJSON):
		return FormatJSON, nil
	case string(FormatJS):
		return FormatJS, nil
	}
	return "", fmt.Errorf("unsupported format %q (must be json or js)", s)
}

const defaultMaxDiagnostics = 100

// Request describes one batch of files to lower.
type Request struct {
	Files          []string
	Jobs           int
	MaxDiagnostics int // 0 selects the default of 100
	Runtime        lower.Runtime
	Format         Format
	Cache          *DiskCache    // nil disables caching
	Progress       ProgressSink  // optional
	Timer          *observ.Timer // optional
}

// FileResult holds the outcome for one input file.
type FileResult struct {
	Path   string
	FileID source.FileID
	Bag    *diag.Bag
	Output []byte
	Stats  lower.Stats
	Cached bool
	Err    error // load, decode or lowering failure; also reported in Bag
}

// Failed reports whether the file produced no output.
func (r *FileResult) Failed() bool {
	return r.Err != nil
}

// LowerFiles lowers every file of req in parallel. Results keep the order
// of req.Files. The returned error is only set when ctx is cancelled; per
// file failures live in the results.
func LowerFiles(ctx context.Context, req *Request) (*source.FileSet, []FileResult, error) {
	if req == nil {
		return nil, nil, fmt.Errorf("missing lower request")
	}
	format := req.Format
	if format == "" {
		format = FormatJSON
	}
	fileSet := source.NewFileSet()
	if len(req.Files) == 0 {
		return fileSet, nil, nil
	}

	// Предзагружаем все файлы, FileSet не потокобезопасен
	endLoad := req.Timer.Track("load")
	fileIDs := make([]source.FileID, len(req.Files))
	loadErrors := make(map[int]error)
	for i, path := range req.Files {
		emit(req.Progress, Event{File: path, Stage: StageLoad, Status: StatusQueued})
		// повторный путь читаем один раз
		if id, ok := fileSet.GetLatest(path); ok {
			fileIDs[i] = id
			continue
		}
		id, err := fileSet.Load(path)
		if err != nil {
			loadErrors[i] = err
			continue
		}
		fileIDs[i] = id
	}
	endLoad(fmt.Sprintf("%d files", len(req.Files)))

	jobs := req.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	maxDiag := req.MaxDiagnostics
	if maxDiag <= 0 {
		maxDiag = defaultMaxDiagnostics
	}
	settings := settingsDigest(req.Runtime, format)

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	results := make([]FileResult, len(req.Files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(req.Files)))
	for i, path := range req.Files {
		g.Go(func() error {
			// Проверка отмены
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			bag := diag.NewBag(maxDiag)
			results[i] = FileResult{Path: path, Bag: bag}
			if loadErr, ok := loadErrors[i]; ok {
				err := fmt.Errorf("failed to load file: %w", loadErr)
				bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{}, err.Error()))
				results[i].Err = err
				emit(req.Progress, Event{File: path, Stage: StageLoad, Status: StatusError, Err: err})
				return nil
			}

			file := fileSet.Get(fileIDs[i])
			results[i].FileID = file.ID
			w := worker{req: req, format: format, path: path, file: file, bag: bag, log: Logger().With(zap.String("file", path))}
			w.run(project.Combine(project.Digest(file.Hash), settings), &results[i])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	return fileSet, results, nil
}

// settingsDigest covers everything besides the input that changes the output.
func settingsDigest(rt lower.Runtime, format Format) project.Digest {
	return project.HashString(fmt.Sprintf("v%d|%s|%s|%s|%s|%s|%s",
		diskCacheSchemaVersion, rt.Object, rt.Mark, rt.Values, rt.Next, rt.Keys, format))
}

type worker struct {
	req    *Request
	format Format
	path   string // as given in the request; events use it
	file   *source.File
	bag    *diag.Bag
	log    *zap.Logger
}

func (w *worker) run(key project.Digest, res *FileResult) {
	start := time.Now()
	path := w.path
	done := func(status Status, err error) {
		emit(w.req.Progress, Event{File: path, Stage: StageEmit, Status: status, Err: err, Elapsed: time.Since(start)})
	}

	var cached DiskPayload
	if ok, err := w.req.Cache.Get(key, &cached); err != nil {
		w.log.Warn("cache read failed", zap.Error(err))
	} else if ok {
		res.Output = cached.Output
		res.Stats = lower.Stats{Generators: cached.Generators, Loops: cached.Loops}
		res.Cached = true
		w.log.Debug("cache hit")
		done(StatusCached, nil)
		return
	}

	emit(w.req.Progress, Event{File: path, Stage: StageDecode, Status: StatusWorking})
	endDecode := w.req.Timer.Track("decode " + path)
	tree, root, err := estree.DecodeBytes(w.file.Content, w.file.ID)
	endDecode("")
	if err != nil {
		w.bag.Add(diag.NewError(decodeCode(err), source.Span{File: w.file.ID}, err.Error()))
		res.Err = err
		done(StatusError, err)
		return
	}

	emit(w.req.Progress, Event{File: path, Stage: StageLower, Status: StatusWorking})
	endLower := w.req.Timer.Track("lower " + path)
	pass := lower.New(tree, lower.Options{
		Runtime:  w.req.Runtime,
		Reporter: diag.BagReporter{Bag: w.bag},
		Logger:   w.log,
	})
	err = pass.Run(root)
	res.Stats = pass.Stats()
	endLower(fmt.Sprintf("%d generators, %d loops", res.Stats.Generators, res.Stats.Loops))
	if err != nil {
		res.Err = err
		w.log.Debug("lowering failed", zap.Error(err))
		done(StatusError, err)
		return
	}

	out, err := render(tree, root, w.format)
	if err != nil {
		err = fmt.Errorf("render %s: %w", path, err)
		w.bag.Add(diag.NewError(diag.IOWriteError, source.Span{File: w.file.ID}, err.Error()))
		res.Err = err
		done(StatusError, err)
		return
	}
	res.Output = out

	payload := &DiskPayload{
		Path:       path,
		Format:     string(w.format),
		Output:     out,
		Generators: res.Stats.Generators,
		Loops:      res.Stats.Loops,
	}
	if err := w.req.Cache.Put(key, payload); err != nil {
		w.log.Warn("cache write failed", zap.Error(err))
	}
	w.log.Debug("lowered",
		zap.Int("generators", res.Stats.Generators),
		zap.Int("loops", res.Stats.Loops),
		zap.Duration("elapsed", time.Since(start)),
	)
	done(StatusDone, nil)
}

func render(t *ast.Tree, root ast.NodeID, format Format) ([]byte, error) {
	if format == FormatJS {
		return []byte(t.Source(root)), nil
	}
	return estree.EncodeBytes(t, root)
}

func decodeCode(err error) diag.Code {
	switch {
	case errors.Is(err, estree.ErrUnknownNode):
		return diag.TreeUnknownNode
	case errors.Is(err, estree.ErrBadField):
		return diag.TreeBadField
	}
	return diag.TreeBadJSON
}
