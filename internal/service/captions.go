package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/video-tools/server/internal/subtitle"
	"github.com/video-tools/server/pkg/log"
)

// fallbackThumbnailText is used when the model cannot be reached; the video
// still ships with something usable.
const fallbackThumbnailText = "MUST WATCH"

const captionPromptTemplate = `You are a professional copywriter who can write video review captions for YouTube/TikTok in several distinct styles.
Based on the story summary below, write THREE CAPTION OPTIONS, one per style.
STORY SUMMARY:
- Opening: %s
- Middle: %s
- Ending: %s
GENERAL REQUIREMENTS:
- Every caption needs fitting hashtags and emoji.
- Natural, catchy, youth-culture language.
THE THREE MANDATORY STYLES:
1. CURIOSITY CAPTION: lead with questions, build one big mystery.
2. CLICKBAIT CAPTION: strong, shocking wording to pull views.
3. COMEDY CAPTION: poke fun at an absurd or funny angle of the story.
RETURN FORMAT (FOLLOW IT EXACTLY):
=== CURIOSITY CAPTION ===
[caption 1 content]
#hashtag #hashtag

=== CLICKBAIT CAPTION ===
[caption 2 content]
#hashtag #hashtag

=== COMEDY CAPTION ===
[caption 3 content]
#hashtag #hashtag
`

const thumbnailPromptTemplate = `You are a professional YouTube/TikTok thumbnail designer who writes eye-catching overlay text.
Based on the story below, write short thumbnail text:
STORY SUMMARY:
- Opening: %s
- Middle: %s
- Ending: %s
THUMBNAIL TEXT REQUIREMENTS:
1. LENGTH: at most 5 words, never longer.
2. Must shock or spark curiosity.
3. Use strong, high-impact words.
FORMAT:
[TEXT LINE 1]
[TEXT LINE 2] (if needed)
Return only the text, no explanations.
`

// generateMarketing asks the model for caption options and thumbnail text
// derived from the summary. Failures degrade to placeholder text; they never
// fail the job.
func (s *TranslateService) generateMarketing(ctx context.Context, summary subtitle.Summary) (string, string) {
	apiKey := s.cfg.Credentials[0]

	captions, err := s.gen.Generate(ctx, apiKey, fmt.Sprintf(captionPromptTemplate, summary.Start, summary.Middle, summary.End))
	if err != nil {
		log.Warn("Caption generation failed: %v", err)
		return fmt.Sprintf("Caption generation failed: %v", err), fallbackThumbnailText
	}

	thumbnail, err := s.gen.Generate(ctx, apiKey, fmt.Sprintf(thumbnailPromptTemplate, summary.Start, summary.Middle, summary.End))
	if err != nil {
		log.Warn("Thumbnail generation failed: %v", err)
		return captions, fallbackThumbnailText
	}

	return strings.TrimSpace(captions), strings.TrimSpace(thumbnail)
}

// brandCaptions wraps the content line of every fenced caption block with
// the configured prefix and suffix, keeping the title and hashtag lines
// intact. Blocks without a === title line pass through unchanged.
func brandCaptions(raw string, prefix string, suffix string) string {
	if prefix == "" && suffix == "" {
		return raw
	}

	blocks := strings.Split(strings.TrimSpace(raw), "\n\n")
	branded := make([]string, 0, len(blocks))
	for _, block := range blocks {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		lines := strings.Split(block, "\n")
		if !strings.HasPrefix(lines[0], "===") || len(lines) < 2 {
			branded = append(branded, block)
			continue
		}

		full := lines[0] + "\n" + prefix + lines[1] + suffix
		if len(lines) > 2 {
			full += "\n" + strings.Join(lines[2:], "\n")
		}
		branded = append(branded, full)
	}
	return strings.Join(branded, "\n\n")
}
