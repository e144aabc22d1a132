package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"vidmerge/internal/concat"
	"vidmerge/internal/logging"
	"vidmerge/internal/match"
	"vidmerge/internal/media/ffprobe"
	"vidmerge/internal/notifications"
	"vidmerge/internal/staging"
)

// Extractor returns the video filenames referenced by a PDF, in order.
type Extractor interface {
	Extract(ctx context.Context, pdfPath string) ([]string, error)
}

// Merger concatenates the files listed in a manifest.
type Merger interface {
	CommandLine(manifest, output string) string
	Merge(ctx context.Context, manifest, output string) error
}

// ProbeFunc inspects a media file. ffprobe.Inspect bound to a binary fits.
type ProbeFunc func(ctx context.Context, path string) (ffprobe.Result, error)

// Options wires a Pipeline.
type Options struct {
	Extractor Extractor
	Merger    Merger
	// ScratchRoot holds the per-job staging directories.
	ScratchRoot string
	KeepScratch bool
	// Probe enables the input codec check and output verification. Nil skips both.
	Probe    ProbeFunc
	Notifier notifications.Service
	Reporter Reporter
	Logger   *slog.Logger
}

// Job names the three inputs of a merge.
type Job struct {
	ID     string `json:"id"`
	Folder string `json:"folder"`
	PDF    string `json:"pdf"`
	Output string `json:"output"`
}

// Verification summarizes the merged output as seen by ffprobe.
type Verification struct {
	DurationSeconds float64 `json:"duration_seconds"`
	VideoStreams    int     `json:"video_streams"`
	AudioStreams    int     `json:"audio_streams"`
	SizeBytes       int64   `json:"size_bytes"`
}

// Result is the outcome of one Run.
type Result struct {
	Job          Job           `json:"job"`
	Step         Step          `json:"step"`
	Kind         Kind          `json:"kind,omitempty"`
	Message      string        `json:"message,omitempty"`
	Err          error         `json:"-"`
	Filenames    []string      `json:"filenames,omitempty"`
	Matched      []match.Entry `json:"matched,omitempty"`
	Missing      []string      `json:"missing,omitempty"`
	Staged       int           `json:"staged"`
	CopyFailures []string      `json:"copy_failures,omitempty"`
	ScratchDir   string        `json:"scratch_dir,omitempty"`
	Verification *Verification `json:"verification,omitempty"`
	Started      time.Time     `json:"started"`
	Finished     time.Time     `json:"finished"`
	Transcript   []string      `json:"transcript"`
}

// Succeeded reports whether the run produced the output file.
func (r Result) Succeeded() bool { return r.Step == StepSucceeded }

// Duration is the wall time of the run.
func (r Result) Duration() time.Duration {
	if r.Finished.IsZero() {
		return 0
	}
	return r.Finished.Sub(r.Started)
}

// Pipeline executes merge jobs one at a time.
type Pipeline struct {
	opts Options
}

// New returns a Pipeline. Extractor and Merger are required by Run.
func New(opts Options) *Pipeline {
	if opts.Reporter == nil {
		opts.Reporter = discard{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	if opts.Notifier == nil {
		opts.Notifier = notifications.Noop()
	}
	return &Pipeline{opts: opts}
}

// Run executes job and returns its result. It never panics; a panic inside a
// step is recovered and reported as KindUnexpected.
func (p *Pipeline) Run(ctx context.Context, job Job) Result {
	if strings.TrimSpace(job.ID) == "" {
		job.ID = uuid.NewString()
	}
	r := &run{
		p:      p,
		ctx:    logging.WithJobID(ctx, job.ID),
		result: Result{Job: job, Started: time.Now()},
	}
	r.execute()
	return r.result
}

type run struct {
	p      *Pipeline
	ctx    context.Context
	step   Step
	result Result
}

func (r *run) execute() {
	r.enter(StepValidating)
	if err := r.result.Job.validate(); err != nil {
		r.fail(err)
		r.result.Finished = time.Now()
		r.enter(StepIdle)
		return
	}

	r.busy(true)
	defer func() {
		if rec := recover(); rec != nil {
			r.fail(&Error{Kind: KindUnexpected, Message: fmt.Sprintf("unexpected error: %v", rec)})
		}
		r.cleanup()
		r.result.Finished = time.Now()
		r.notify()
		r.progress(0)
		r.busy(false)
		r.enter(StepIdle)
	}()

	if err := r.steps(); err != nil {
		r.fail(err)
		return
	}
	r.enter(StepSucceeded)
	r.result.Step = StepSucceeded
	r.progress(stepProgress[StepSucceeded])
	r.log(slog.LevelInfo, "Merge completed successfully!")
	r.verify()
}

func (j Job) validate() error {
	switch {
	case strings.TrimSpace(j.Folder) == "":
		return &Error{Kind: KindValidation, Message: "please select a video folder"}
	case strings.TrimSpace(j.PDF) == "":
		return &Error{Kind: KindValidation, Message: "please select a PDF file"}
	case strings.TrimSpace(j.Output) == "":
		return &Error{Kind: KindValidation, Message: "please specify an output file"}
	}
	return nil
}

func (r *run) steps() error {
	opts := r.p.opts
	if opts.Extractor == nil || opts.Merger == nil {
		return &Error{Kind: KindUnexpected, Message: "pipeline is missing its extractor or merger"}
	}
	job := r.result.Job

	r.enter(StepExtracting)
	r.log(slog.LevelInfo, "Extracting filenames from PDF...")
	names, err := opts.Extractor.Extract(r.ctx, job.PDF)
	if err != nil {
		if KindOf(err) == KindExtractionCapability {
			return wrap(err, KindExtractionCapability, "PDF text extraction is unavailable")
		}
		return wrap(err, KindExtraction, "could not read PDF")
	}
	r.result.Filenames = names
	if len(names) == 0 {
		return &Error{Kind: KindNoFilenames, Message: "no filenames found"}
	}
	r.log(slog.LevelInfo, fmt.Sprintf("Found %d filenames in PDF", len(names)))

	r.enter(StepMatching)
	matched, err := match.Match(job.Folder, names)
	if err != nil {
		return wrap(err, KindFolderAccess, "could not read video folder")
	}
	r.result.Matched = matched.Matched
	r.result.Missing = matched.Missing
	if len(matched.Missing) > 0 {
		r.log(slog.LevelWarn, "Missing files: "+strings.Join(matched.Missing, ", "),
			logging.Strings("missing", matched.Missing))
	}
	if len(matched.Matched) == 0 {
		return &Error{Kind: KindNoMatches, Message: "no matching files found"}
	}
	r.log(slog.LevelInfo, fmt.Sprintf("Matched %d files out of %d", len(matched.Matched), len(names)))

	r.enter(StepStaging)
	r.log(slog.LevelInfo, "Copying files to temporary directory")
	staged, err := staging.Stage(r.ctx, opts.ScratchRoot, job.ID, matched.Paths(), r.logger())
	r.result.ScratchDir = staged.Dir
	if err != nil {
		return wrap(err, KindUnexpected, "could not prepare scratch directory")
	}
	for _, f := range staged.Files {
		r.log(slog.LevelInfo, fmt.Sprintf("Copied %s -> %s", filepath.Base(f.Source), filepath.Base(f.Path)))
	}
	for _, failure := range staged.Failures {
		r.result.CopyFailures = append(r.result.CopyFailures, failure.Source)
		r.log(slog.LevelWarn, fmt.Sprintf("Error copying %s: %v", filepath.Base(failure.Source), failure.Err),
			logging.String("kind", string(KindPartialCopy)))
	}
	r.result.Staged = len(staged.Files)

	r.enter(StepManifest)
	manifest, err := concat.WriteManifest(staged.Dir, staged.Paths())
	if err != nil {
		return wrap(err, KindUnexpected, "could not write concat list")
	}
	r.log(slog.LevelInfo, fmt.Sprintf("Created concat list with %d entries", len(staged.Files)))
	r.checkCodecs(staged.Paths())

	r.enter(StepMerging)
	r.log(slog.LevelInfo, "Running FFmpeg merge command...")
	r.log(slog.LevelInfo, opts.Merger.CommandLine(manifest, job.Output))
	if err := opts.Merger.Merge(r.ctx, manifest, job.Output); err != nil {
		var exitErr *concat.ExitError
		if errors.As(err, &exitErr) && strings.TrimSpace(exitErr.Stderr) != "" {
			r.log(slog.LevelError, "FFmpeg error: "+strings.TrimSpace(exitErr.Stderr))
		}
		switch classify(err, KindUnexpected) {
		case KindToolNotFound:
			return wrap(err, KindToolNotFound, "FFmpeg not found, install it and add it to your PATH")
		case KindCanceled:
			return wrap(err, KindCanceled, "merge canceled")
		case KindInvocation:
			return wrap(err, KindInvocation, "could not run FFmpeg")
		default:
			return wrap(err, KindMergeExit, "FFmpeg merge failed")
		}
	}
	return nil
}

func (r *run) fail(err error) {
	pe := wrap(err, KindUnexpected, "")
	r.result.Step = StepFailed
	r.result.Kind = pe.Kind
	r.result.Message = pe.Error()
	r.result.Err = pe
	if r.step != StepValidating {
		r.enter(StepFailed)
	}
	r.log(slog.LevelError, "Error: "+pe.Error(), logging.String("kind", string(pe.Kind)))
}

func (r *run) cleanup() {
	dir := r.result.ScratchDir
	if dir == "" {
		return
	}
	if r.p.opts.KeepScratch {
		r.log(slog.LevelInfo, "Keeping temporary directory "+dir)
		return
	}
	if err := staging.Remove(dir); err != nil {
		logging.WarnWithContext(r.logger(), "scratch cleanup failed", "staging_cleanup_failed",
			logging.String("path", dir),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "remove the directory by hand or run vidmerge clean"),
			logging.String(logging.FieldImpact, "temporary copies remain on disk"),
		)
		return
	}
	r.result.ScratchDir = ""
}

// checkCodecs warns when staged inputs disagree on video codec or size, which
// stream-copy concatenation cannot reconcile.
func (r *run) checkCodecs(paths []string) {
	probe := r.p.opts.Probe
	if probe == nil || len(paths) < 2 {
		return
	}
	signatures := make(map[string]string, len(paths))
	for _, path := range paths {
		info, err := probe(r.ctx, path)
		if err != nil {
			r.logger().Debug("probe input failed", logging.String("path", path), logging.Error(err))
			continue
		}
		signatures[path] = info.VideoSignature()
	}
	for _, m := range ffprobe.CompareSignatures(signatures, paths) {
		r.log(slog.LevelWarn, fmt.Sprintf("Warning: %s is %s but earlier inputs are %s; the merged file may not play correctly",
			filepath.Base(m.Path), m.Signature, m.Expected))
	}
}

func (r *run) verify() {
	probe := r.p.opts.Probe
	if probe == nil {
		return
	}
	info, err := probe(r.ctx, r.result.Job.Output)
	if err != nil {
		logging.WarnWithContext(r.logger(), "output verification failed", "verify_failed",
			logging.String("output", r.result.Job.Output),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the output with ffprobe"),
			logging.String(logging.FieldImpact, "merged file was written but not verified"),
		)
		return
	}
	r.result.Verification = &Verification{
		DurationSeconds: info.DurationSeconds(),
		VideoStreams:    info.VideoStreamCount(),
		AudioStreams:    info.AudioStreamCount(),
		SizeBytes:       info.SizeBytes(),
	}
	r.log(slog.LevelInfo, fmt.Sprintf("Output verified: %.1fs, %d video / %d audio streams",
		info.DurationSeconds(), info.VideoStreamCount(), info.AudioStreamCount()))
}

func (r *run) notify() {
	event := notifications.EventMergeCompleted
	payload := notifications.Payload{
		"output":   r.result.Job.Output,
		"files":    r.result.Staged,
		"duration": r.result.Duration(),
	}
	if r.result.Step != StepSucceeded {
		event = notifications.EventMergeFailed
		payload = notifications.Payload{
			"kind":  string(r.result.Kind),
			"error": r.result.Message,
		}
	}
	// The job context may already be canceled; notification still goes out.
	ctx := context.WithoutCancel(r.ctx)
	if err := r.p.opts.Notifier.Publish(ctx, event, payload); err != nil {
		logging.WarnWithContext(r.logger(), "notification failed", "notify_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check notifications settings"),
			logging.String(logging.FieldImpact, "completion was not announced"),
		)
	}
}

func (r *run) logger() *slog.Logger {
	ctx := r.ctx
	if r.step != "" {
		ctx = logging.WithStep(ctx, string(r.step))
	}
	return logging.WithContext(ctx, logging.NewComponentLogger(r.p.opts.Logger, "pipeline"))
}

func (r *run) enter(step Step) {
	r.step = step
	r.emit(Event{Type: EventStep, Step: step})
	if pct, ok := stepProgress[step]; ok && !step.Terminal() {
		r.progress(pct)
	}
}

func (r *run) log(level slog.Level, msg string, attrs ...logging.Attr) {
	r.result.Transcript = append(r.result.Transcript, msg)
	r.logger().Log(r.ctx, level, msg, logging.Args(attrs...)...)
	r.emit(Event{Type: EventLog, Step: r.step, Level: level, Message: msg})
}

func (r *run) progress(pct int) {
	r.emit(Event{Type: EventProgress, Step: r.step, Progress: pct})
}

func (r *run) busy(on bool) {
	r.emit(Event{Type: EventBusy, Step: r.step, Busy: on})
}

func (r *run) emit(e Event) {
	e.Time = time.Now()
	e.JobID = r.result.Job.ID
	r.p.opts.Reporter.Report(e)
}
