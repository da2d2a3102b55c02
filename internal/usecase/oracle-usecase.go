package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/iamvkosarev/stellar-archive/config"
	"github.com/iamvkosarev/stellar-archive/internal/model"
	openai_tools "github.com/iamvkosarev/stellar-archive/pkg/openai-tools"
	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

const (
	// OracleFallbackMessage replaces any failed recommendation request.
	OracleFallbackMessage = "The cosmic link is flickering. Explore Princewill Cosmas' private vault while I realign the neural sensors."
	// OracleSilentMessage replaces a reply that came back empty.
	OracleSilentMessage = "The archives are silent. Try another query."
)

const oraclePromptFormat = `You are the "Archive Oracle" for Stellar Archive.
A user is asking: "%s".
Available volumes: %s.

Your goal:
1. Recommend 1-2 volumes based on the query.
2. Emphasize "%s" books (%s) which are part of Princewill Cosmas' elite private collection.
3. Remind them these volumes offer permanent digital custody.
4. Highlight sectors like %s, %s, and %s.
5. Maintain a mysterious, high-end, and cosmic tone.
6. Always state clearly that global author books are %s while %s records from Princewill Cosmas' collection are %s.`

type OracleUsecaseDeps struct {
	Logger      logrus.FieldLogger
	CountTokens func(text string, model string) (int, error)
}

// OracleUsecase is the recommendation gateway. It never returns an error: every failure
// becomes OracleFallbackMessage.
type OracleUsecase struct {
	OracleUsecaseDeps
	cfg config.Oracle
}

func NewOracleUsecase(cfg config.Oracle, deps OracleUsecaseDeps) *OracleUsecase {
	if deps.CountTokens == nil {
		deps.CountTokens = openai_tools.CountTokens
	}
	return &OracleUsecase{
		OracleUsecaseDeps: deps,
		cfg:               cfg,
	}
}

func (o *OracleUsecase) GetRecommendation(ctx context.Context, query string, snapshot []model.Book) string {
	log := o.Logger.WithField("model", o.cfg.Model)

	// Read at call time so a missing key degrades to the fallback instead of failing startup.
	apiKey := strings.TrimSpace(o.cfg.APIKey)
	if apiKey == "" {
		log.Warn("oracle api key is not configured")
		return OracleFallbackMessage
	}

	prompt := o.fitPrompt(log, query, snapshot)

	clientConfig := openai.DefaultConfig(apiKey)
	clientConfig.BaseURL = o.cfg.BaseURL
	c := openai.NewClientWithConfig(clientConfig)

	if o.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.cfg.RequestTimeout)
		defer cancel()
	}

	req := openai.ChatCompletionRequest{
		Model:       o.cfg.Model,
		Temperature: o.cfg.Temperature,
		TopP:        1,
		N:           1,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	}

	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		log.WithError(err).Error("failed to get recommendation")
		return OracleFallbackMessage
	}
	if len(resp.Choices) == 0 {
		log.Warn("oracle returned no choices")
		return ""
	}
	return resp.Choices[0].Message.Content
}

// fitPrompt drops catalog entries from the tail until the prompt fits MaxPromptTokens.
func (o *OracleUsecase) fitPrompt(log logrus.FieldLogger, query string, snapshot []model.Book) string {
	prompt := BuildOraclePrompt(query, snapshot)
	if o.cfg.MaxPromptTokens <= 0 {
		return prompt
	}
	for len(snapshot) > 0 {
		tokenCount, err := o.CountTokens(prompt, o.cfg.Model)
		if err != nil {
			log.WithError(err).Warn("failed to count prompt tokens")
			return prompt
		}
		if tokenCount <= o.cfg.MaxPromptTokens {
			break
		}
		snapshot = snapshot[:len(snapshot)-1]
		prompt = BuildOraclePrompt(query, snapshot)
		log.WithField("volumes", len(snapshot)).Debug("catalog listing trimmed due to token limit")
	}
	return prompt
}

// BuildOraclePrompt renders the persona, the catalog and the pricing policy around query.
func BuildOraclePrompt(query string, snapshot []model.Book) string {
	volumes := make([]string, 0, len(snapshot))
	for _, book := range snapshot {
		volumes = append(volumes, fmt.Sprintf("%s by %s (%s)", book.Title, book.Author, book.Category))
	}
	premium := model.FormatPrice(model.PricePremium)
	return fmt.Sprintf(
		oraclePromptFormat,
		query,
		strings.Join(volumes, ", "),
		model.CategoryOwnershipFree, premium,
		model.CategoryFolklore, model.CategoryScience, model.CategoryAfricanHeritage,
		model.FormatPrice(model.PriceStandard), model.CategoryOwnershipFree, premium,
	)
}
