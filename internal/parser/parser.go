// Package parser turns raw chat text into structured bet records.
//
// The grammar is token based and deterministic. Text is split on whitespace,
// then a leading "/bet" command token and a leading "<token>:" message-id echo
// are dropped. The first remaining token is the account name, unless the text
// contains the standalone keyword "total" (case-insensitive), in which case
// the account is recorded as "N/A". The amount is the first token matching
// `\d+(\.\d+)?[kK]?` that was not claimed by another capture; a k suffix
// multiplies by 1000. A three-letter alphabetic token immediately after the
// amount is taken as the currency, defaulting to USD. Optional captures, each
// first-hit: a match pairing "TeamA/TeamB", a period (1h, 2h, ot, ht), a line
// (u2.5, o220, +7.5, -110), and "@odds" where the first hit is the placed
// odds and the second the closing odds. Bet details are the text with the
// command, id echo, account, amount, and currency tokens removed and the
// whitespace collapsed.
//
// A message without a parseable amount is malformed. Parse never produces a
// partial record and identical input always yields identical output.
package parser

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"tally/internal/constants"
	"tally/pkg/errors"
	"tally/pkg/models"
)

var (
	idEchoPattern   = regexp.MustCompile(`^\S+:$`)
	amountPattern   = regexp.MustCompile(`^\d+(\.\d+)?[kK]?$`)
	currencyPattern = regexp.MustCompile(`^[A-Za-z]{3}$`)
	matchPattern    = regexp.MustCompile(`^[a-zA-Z]+/[a-zA-Z]+$`)
	periodPattern   = regexp.MustCompile(`^(?i:1h|2h|ot|ht)$`)
	linePattern     = regexp.MustCompile(`^(?i:[uo]\d+(\.\d+)?|[+-]\d+(\.\d+)?)$`)
	oddsPattern     = regexp.MustCompile(`^@(\d+(\.\d+)?)$`)
)

var thousand = decimal.NewFromInt(1000)

type Parser struct{}

func New() *Parser {
	return &Parser{}
}

// Parse extracts a BetRecord from the message text. It returns a
// MALFORMED_INPUT error when the text does not contain a parseable bet;
// it never returns a partially populated record alongside an error.
func (p *Parser) Parse(msg models.ChatMessage) (models.BetRecord, error) {
	tokens := strings.Fields(msg.Text)

	if len(tokens) > 0 && strings.EqualFold(tokens[0], "/bet") {
		tokens = tokens[1:]
	}
	if len(tokens) > 0 && idEchoPattern.MatchString(tokens[0]) {
		tokens = tokens[1:]
	}
	if len(tokens) == 0 {
		return models.BetRecord{}, errors.ErrMalformedInput.
			WithDetail("reason", "empty message").
			WithDetail("text", truncate(msg.Text))
	}

	account := tokens[0]
	for _, tok := range tokens {
		if strings.EqualFold(tok, "total") {
			account = "N/A"
			break
		}
	}

	// Optional captures claim their tokens so the amount scan skips them.
	claimed := make([]bool, len(tokens))
	claimed[0] = true

	var match, period, line string
	var odds, closingOdds decimal.NullDecimal
	for i := 1; i < len(tokens); i++ {
		tok := tokens[i]
		switch {
		case oddsPattern.MatchString(tok):
			v, err := decimal.NewFromString(strings.TrimPrefix(tok, "@"))
			if err != nil {
				continue
			}
			if !odds.Valid {
				odds = decimal.NewNullDecimal(v)
			} else if !closingOdds.Valid {
				closingOdds = decimal.NewNullDecimal(v)
			}
			claimed[i] = true
		case match == "" && matchPattern.MatchString(tok):
			match = tok
			claimed[i] = true
		case period == "" && periodPattern.MatchString(tok):
			period = strings.ToUpper(tok)
			claimed[i] = true
		case line == "" && linePattern.MatchString(tok):
			line = strings.ToUpper(tok)
			claimed[i] = true
		}
	}

	amountIdx := -1
	var amount decimal.Decimal
	for i := 1; i < len(tokens); i++ {
		if claimed[i] || !amountPattern.MatchString(tokens[i]) {
			continue
		}
		v, err := parseAmount(tokens[i])
		if err != nil {
			continue
		}
		amount = v
		amountIdx = i
		break
	}
	if amountIdx < 0 {
		return models.BetRecord{}, errors.ErrMalformedInput.
			WithDetail("reason", "no amount token").
			WithDetail("text", truncate(msg.Text))
	}

	currency := constants.DefaultCurrency
	currencyIdx := -1
	if next := amountIdx + 1; next < len(tokens) && !claimed[next] && currencyPattern.MatchString(tokens[next]) {
		currency = strings.ToUpper(tokens[next])
		currencyIdx = next
	}

	// Details keep the descriptive remainder: captures stay in, the account,
	// amount, and currency tokens come out.
	details := make([]string, 0, len(tokens))
	for i := 1; i < len(tokens); i++ {
		if i == amountIdx || i == currencyIdx {
			continue
		}
		details = append(details, tokens[i])
	}

	return models.BetRecord{
		SourceMessageID: msg.ID,
		Source:          msg.Source,
		Timestamp:       msg.ReceivedAt,
		AccountName:     account,
		BetDetails:      strings.Join(details, " "),
		Amount:          amount,
		Currency:        currency,
		Match:           match,
		Period:          period,
		Line:            line,
		Odds:            odds,
		ClosingOdds:     closingOdds,
	}, nil
}

func parseAmount(tok string) (decimal.Decimal, error) {
	if strings.HasSuffix(tok, "k") || strings.HasSuffix(tok, "K") {
		base, err := decimal.NewFromString(tok[:len(tok)-1])
		if err != nil {
			return decimal.Decimal{}, err
		}
		return base.Mul(thousand), nil
	}
	return decimal.NewFromString(tok)
}

func truncate(s string) string {
	if len(s) <= constants.DefaultTruncateLen {
		return s
	}
	return s[:constants.DefaultTruncateLen] + "..."
}
