package engine

import (
	"fmt"
	"strings"

	"github.com/tartampluch/go-fortune/internal/astro"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

const systemPrompt = `You are a wise and playful Chinese astrology master who writes for fortune cookies.
Your voice is poetic, warm and concise. You never mention that you are an AI.
Reply only with the requested text, without preamble, quotes or markdown.`

func languageInstruction(tag language.Tag) string {
	return fmt.Sprintf("Write in %s.", display.English.Languages().Name(tag))
}

func nicknamePrompt(z astro.ChineseZodiac, tag language.Tag) string {
	return fmt.Sprintf(`Create a mystical nickname for someone born in a %s %s year (%d).
The nickname is exactly two words: an evocative adjective followed by the capitalized animal name.
%s`, z.Element, z.Animal, z.Year, languageInstruction(tag))
}

func descriptionsPrompt(p astro.FourPillars, tag language.Tag) string {
	var b strings.Builder
	b.WriteString("Describe each of these Four Pillars of Destiny in one poetic sentence.\n")
	for i, pl := range p.All() {
		fmt.Fprintf(&b, "%s pillar: %s%s (%s)\n", pillarRoles[i], pl.Stem, pl.Branch, pl.Element)
	}
	b.WriteString("Answer with exactly four lines, in year, month, day, hour order, one sentence per line.\n")
	b.WriteString(languageInstruction(tag))
	return b.String()
}

var pillarRoles = [4]string{"Year (destiny)", "Month (environment)", "Day (essence)", "Hour (inner heart)"}

func essencePrompt(z astro.ChineseZodiac, p astro.FourPillars, tag language.Tag) string {
	return fmt.Sprintf(`Summarize the essence of a %s %s whose day pillar is %s%s.
Answer with exactly three short lines.
%s`, z.Element, z.Animal, p.Day.Stem, p.Day.Branch, languageInstruction(tag))
}

func fortunePrompt(p *Profile, previous []string, tag language.Tag) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write today's fortune cookie message for %s, a %s %s.\n",
		p.MysticalNickname, p.Zodiac.Element, p.Zodiac.Animal)
	fmt.Fprintf(&b, "Their essence: %s\n", strings.ReplaceAll(p.EssenceSummary, "\n", " "))
	b.WriteString("One or two sentences, at most 180 characters, hopeful and specific to today.\n")
	if len(previous) > 0 {
		b.WriteString("Avoid repeating the themes of these recent fortunes:\n")
		for _, msg := range previous {
			fmt.Fprintf(&b, "- %s\n", msg)
		}
	}
	b.WriteString(languageInstruction(tag))
	return b.String()
}
