package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"

	"github.com/spigell/staffmatch/internal/candidate"
	"github.com/spigell/staffmatch/internal/utils"
)

const parseSystem = "You are a helpful assistant that formats CVs as JSON."

var (
	//go:embed parse.md
	parseTemplate string

	//go:embed record.schema.json
	recordSchema string

	recordSchemaLoader = gojsonschema.NewStringLoader(recordSchema)
)

// Parser turns free CV text into a candidate record ready for the store.
type Parser struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewParser(generator contentGenerator, maxLogLength int, logger *zap.Logger) *Parser {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Parser{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

func (p *Parser) Parse(ctx context.Context, text string) (candidate.Record, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("cv text is empty")
	}

	prompt := strings.ReplaceAll(parseTemplate, "{{CV_TEXT}}", text)

	p.logger.Debug("gemini parse request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(text, p.maxLogLen)),
	)

	raw, err := p.generator.GenerateContent(ctx, parseSystem, prompt)
	if err != nil {
		return nil, err
	}

	record, err := parseRecord(raw)
	if err != nil {
		p.logger.Debug("unparsable gemini response",
			zap.String("response_preview", utils.TruncateForLog(raw, p.maxLogLen)),
		)
		return nil, err
	}

	return record, nil
}

func parseRecord(raw string) (candidate.Record, error) {
	cleaned := extractJSON(raw)

	if err := validateRecord(cleaned); err != nil {
		return nil, err
	}

	var record candidate.Record
	if err := json.Unmarshal([]byte(cleaned), &record); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	if record == nil {
		return nil, errors.New("parse gemini response: not a json object")
	}

	if _, err := candidate.Decode(0, record); err != nil {
		return nil, fmt.Errorf("parsed cv does not describe a candidate: %w", err)
	}

	return record, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

// validateRecord checks the model output against the record schema before it is decoded.
func validateRecord(doc string) error {
	result, err := gojsonschema.Validate(recordSchemaLoader, gojsonschema.NewStringLoader(doc))
	if err != nil {
		return fmt.Errorf("parse gemini response: %w", err)
	}

	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		problems = append(problems, e.String())
	}

	return fmt.Errorf("gemini response does not match the record schema: %s", strings.Join(problems, "; "))
}
