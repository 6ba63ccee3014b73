package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"alfredoptarigan/resume-checker/internal/analyzer"
	"alfredoptarigan/resume-checker/internal/config"
	"alfredoptarigan/resume-checker/internal/logger"
	"alfredoptarigan/resume-checker/internal/models"
	"alfredoptarigan/resume-checker/internal/parser"
	"alfredoptarigan/resume-checker/internal/scoring"
)

var ErrEmptyJobDescription = errors.New("job description text is empty")

type AnalyzeInput struct {
	AnalysisID     uuid.UUID
	ResumeData     []byte
	ResumeFormat   Format
	JobDescription string
	JobTitle       string
}

// Pipeline runs one resume against one job description end to end.
type Pipeline interface {
	Analyze(ctx context.Context, input AnalyzeInput) (*models.AnalysisResult, error)
}

type pipeline struct {
	extractor    DocumentExtractor
	resumeParser parser.ResumeParser
	jobParser    parser.JobDescriptionParser
	hard         analyzer.HardMatchAnalyzer
	semantic     analyzer.SemanticMatchAnalyzer
	calculator   scoring.Calculator
	now          func() time.Time
}

type PipelineOption func(*pipeline)

// WithPipelineClock fixes the time used for "present" date ranges and
// result timestamps.
func WithPipelineClock(now func() time.Time) PipelineOption {
	return func(p *pipeline) {
		p.now = now
	}
}

func NewPipeline(extractor DocumentExtractor, embedder analyzer.Embedder, cfg config.AnalysisConfig, options ...PipelineOption) Pipeline {
	p := &pipeline{
		extractor: extractor,
		jobParser: parser.NewJobDescriptionParser(cfg.JDHeaderMaxLength),
		hard: analyzer.NewHardMatchAnalyzer(analyzer.HardMatchConfig{
			FuzzyThreshold:    cfg.FuzzyThreshold,
			FuzzyCreditFactor: cfg.FuzzyCreditFactor,
			KeywordTopN:       cfg.KeywordTopN,
			SkillWeight:       cfg.SkillWeight,
			KeywordWeight:     cfg.KeywordWeight,
			EducationWeight:   cfg.EducationWeight,
			ExperienceWeight:  cfg.ExperienceWeight,
		}),
		semantic: analyzer.NewSemanticMatchAnalyzer(embedder, analyzer.SemanticMatchConfig{
			OverallWeight: cfg.OverallSimilarityWeight,
			SectionWeight: cfg.SectionSimilarityWeight,
		}),
		calculator: scoring.NewCalculator(scoring.Config{
			HardWeight:       cfg.HardMatchWeight,
			SemanticWeight:   cfg.SemanticMatchWeight,
			HighThreshold:    cfg.HighThreshold,
			MediumThreshold:  cfg.MediumThreshold,
			SectionThreshold: cfg.SectionSimilarityThreshold,
		}),
		now: time.Now,
	}

	for _, option := range options {
		option(p)
	}
	p.resumeParser = parser.NewResumeParser(cfg.ResumeHeaderMaxLength, parser.WithClock(p.now))

	return p
}

// Analyze implements Pipeline.
func (p *pipeline) Analyze(ctx context.Context, input AnalyzeInput) (*models.AnalysisResult, error) {
	if strings.TrimSpace(input.JobDescription) == "" {
		return nil, ErrEmptyJobDescription
	}

	id := input.AnalysisID
	if id == uuid.Nil {
		id = uuid.New()
	}
	ctx = logger.WithAnalysis(ctx, id.String())
	log := logger.Ctx(ctx)
	start := p.now()

	resumeText, err := p.extractor.Extract(ctx, input.ResumeData, input.ResumeFormat)
	if err != nil {
		return nil, fmt.Errorf("failed to extract resume: %w", err)
	}

	resume := p.resumeParser.Parse(resumeText)
	jd := p.jobParser.Parse(input.JobDescription, input.JobTitle)

	log.Debug().
		Strs("resume_sections", resume.Labels()).
		Strs("jd_sections", jd.Labels()).
		Int("required_skills", len(jd.Skills.Required)).
		Msg("documents parsed")

	var (
		hardResult     *analyzer.HardMatchResult
		semanticResult *analyzer.SemanticMatchResult
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hardResult = p.hard.Analyze(resume, jd)
		return nil
	})

	g.Go(func() error {
		result, err := p.semantic.Analyze(gCtx, resume, jd)
		if err != nil {
			return fmt.Errorf("semantic match failed: %w", err)
		}
		semanticResult = result
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	final := p.calculator.Calculate(hardResult, semanticResult)

	log.Info().
		Float64("relevance_score", final.RelevanceScore).
		Str("verdict", string(final.Verdict)).
		Dur("elapsed", p.now().Sub(start)).
		Msg("analysis completed")

	return &models.AnalysisResult{
		ID:                   id.String(),
		JobTitle:             jd.Title,
		RelevanceScore:       final.RelevanceScore,
		Verdict:              final.Verdict,
		MissingElements:      final.MissingElements,
		Suggestions:          final.Suggestions,
		HardMatchDetails:     hardResult,
		SemanticMatchDetails: semanticResult,
		CreatedAt:            p.now().UTC(),
	}, nil
}
