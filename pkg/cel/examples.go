package cel

var ScreenExpressionExamples = map[string]string{
	"max_stake":           `amount <= 10000.0`,
	"min_stake":           `amount >= 1.0`,
	"stake_range":         `amount >= 1.0 && amount <= 50000.0`,
	"known_currency":      `currency in ["USD", "PHP", "EUR"]`,
	"account_not_blocked": `!(account in ["frozen_acct", "test_acct"])`,
	"named_account":       `account != "N/A"`,
	"source_allowlist":    `source in ["telegram", "discord"]`,
	"sender_present":      `sender != ""`,
	"details_not_empty":   `details != ""`,
	"no_test_messages":    `!text.contains("test")`,
	"combined":            `amount > 0.0 && currency == "USD" && account != "N/A"`,
	"large_stake_usd":     `currency == "USD" ? amount <= 25000.0 : true`,
}
