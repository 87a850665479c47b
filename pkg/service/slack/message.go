package slack

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/secmon-lab/riskscore/pkg/domain/model"
	"github.com/secmon-lab/riskscore/pkg/domain/types"
	"github.com/slack-go/slack"
)

// Slack rejects header text longer than 150 characters
const maxHeaderChars = 150

func tierEmoji(tier types.RiskTier) string {
	switch tier {
	case types.RiskTierHigh:
		return ":red_circle:"
	case types.RiskTierModerate:
		return ":large_yellow_circle:"
	default:
		return ":large_green_circle:"
	}
}

func fallbackText(record *model.AssessmentRecord) string {
	return fmt.Sprintf("%s risk assessment: %s (score %d)", record.RiskTier, record.SubjectName, record.TotalScore)
}

func buildAssessmentBlocks(record *model.AssessmentRecord, baseURL string) []slack.Block {
	header := truncateChars(fmt.Sprintf("%s %s risk: %s", tierEmoji(record.RiskTier), record.RiskTier, record.SubjectName), maxHeaderChars)

	branch := record.BranchID.String()
	if branch == "" {
		branch = "-"
	}

	fields := []*slack.TextBlockObject{
		slack.NewTextBlockObject(slack.MarkdownType, "*Score*\n"+fmt.Sprintf("%d", record.TotalScore), false, false),
		slack.NewTextBlockObject(slack.MarkdownType, "*Tier*\n"+record.RiskTier.String(), false, false),
		slack.NewTextBlockObject(slack.MarkdownType, "*Branch*\n"+branch, false, false),
		slack.NewTextBlockObject(slack.MarkdownType, "*Selected*\n"+strings.Join(types.OptionIDsToStrings(record.SelectedOptionIDs), ", "), false, false),
	}

	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, header, false, false)),
		slack.NewSectionBlock(nil, fields, nil),
	}

	footer := "Assessment `" + record.ID.String() + "`"
	if baseURL != "" {
		link := strings.TrimRight(baseURL, "/") + "/assessments/" + record.ID.String()
		footer = fmt.Sprintf("<%s|Open assessment> `%s`", link, record.ID)
	}
	blocks = append(blocks, slack.NewContextBlock("",
		slack.NewTextBlockObject(slack.MarkdownType, footer, false, false)))

	return blocks
}

// truncateChars cuts s to at most limit characters, marking the cut with an ellipsis
func truncateChars(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-1]) + "…"
}
