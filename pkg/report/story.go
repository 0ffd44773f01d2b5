package report

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/preenlabs/preen/pkg/cleaner"
)

// Style selects the narrative voice of a generated story.
type Style string

const (
	StyleExecutive Style = "executive"
	StyleTechnical Style = "technical"
	StyleCasual    Style = "casual"
)

// styleProfile describes a narrative voice for the enhancement prompt.
type styleProfile struct {
	Tone     string
	Audience string
	Focus    string
}

var styleProfiles = map[Style]styleProfile{
	StyleExecutive: {
		Tone:     "professional and business-focused",
		Audience: "C-level executives and business stakeholders",
		Focus:    "high-level insights, business impact, and strategic recommendations",
	},
	StyleTechnical: {
		Tone:     "detailed and analytical",
		Audience: "data scientists, analysts, and technical teams",
		Focus:    "specific technical details, methodologies, and data quality metrics",
	},
	StyleCasual: {
		Tone:     "friendly and conversational",
		Audience: "general users and non-technical stakeholders",
		Focus:    "easy-to-understand explanations with practical examples",
	},
}

// ParseStyle maps a user-supplied style name to a Style, defaulting to
// executive for anything unrecognized.
func ParseStyle(s string) Style {
	switch Style(strings.ToLower(strings.TrimSpace(s))) {
	case StyleTechnical:
		return StyleTechnical
	case StyleCasual:
		return StyleCasual
	default:
		return StyleExecutive
	}
}

// Styles returns the supported narrative styles.
func Styles() []Style {
	return []Style{StyleExecutive, StyleTechnical, StyleCasual}
}

// Story renders a deterministic template narrative of the audit in the
// given style.
func Story(a *cleaner.Audit, style Style) string {
	switch style {
	case StyleTechnical:
		return technicalStory(a)
	case StyleCasual:
		return casualStory(a)
	default:
		return executiveStory(a)
	}
}

// signedComma renders a delta with an explicit sign and thousands
// grouping ("+1,200", "-3").
func signedComma(n int) string {
	if n >= 0 {
		return "+" + humanize.Comma(int64(n))
	}
	return humanize.Comma(int64(n))
}

func executiveStory(a *cleaner.Audit) string {
	q := Assess(a)
	issues := MajorIssues(a)

	var b strings.Builder
	b.WriteString("# Executive Data Quality Report\n\n")
	b.WriteString("## Executive Summary\n\n")

	switch {
	case q.Score >= 80:
		b.WriteString("🎯 **Excellent Data Quality Achieved**\n\n")
		fmt.Fprintf(&b, "Your dataset has been successfully optimized for business intelligence and analytics. With a data quality score of **%d%%**, your data is now ready for confident decision-making.\n", q.Score)
	case q.Score >= 60:
		b.WriteString("✅ **Significant Data Quality Improvements**\n\n")
		fmt.Fprintf(&b, "Your dataset has been substantially improved with a quality score of **%d%%**. Key issues have been addressed, making your data more reliable for business operations.\n", q.Score)
	default:
		b.WriteString("⚠️ **Data Quality Issues Identified**\n\n")
		fmt.Fprintf(&b, "Your dataset requires attention with a quality score of **%d%%**. Critical issues have been identified that could impact business decisions.\n", q.Score)
	}

	b.WriteString("\n## Key Performance Indicators\n\n")
	fmt.Fprintf(&b, "• **Dataset Integrity**: %s → %s records (%s change)\n",
		humanize.Comma(int64(a.RowsBefore)), humanize.Comma(int64(a.RowsAfter)), signedComma(a.RowsAfter-a.RowsBefore))
	fmt.Fprintf(&b, "• **Data Quality Score**: %d%%\n", q.Score)
	fmt.Fprintf(&b, "• **Duplicate Elimination**: %s redundant records removed\n", humanize.Comma(int64(a.DuplicatesRemoved)))
	fmt.Fprintf(&b, "• **Data Dimensions**: %d columns analyzed\n", len(a.Columns))

	b.WriteString("\n## Business Impact\n\n")
	if a.DuplicatesRemoved > 0 {
		fmt.Fprintf(&b, "**Eliminated Data Redundancy**: Removed %s duplicate records, ensuring accurate reporting and preventing inflated metrics in business dashboards.\n\n", humanize.Comma(int64(a.DuplicatesRemoved)))
	}
	if len(issues) > 0 {
		b.WriteString("**Data Quality Assurance**: Addressed critical data quality issues that could have led to:\n")
		b.WriteString("• Inaccurate business intelligence\n")
		b.WriteString("• Misleading performance metrics\n")
		b.WriteString("• Poor decision-making based on flawed data\n\n")
	}

	b.WriteString("## Strategic Recommendations\n\n")
	b.WriteString("1. **Implement Data Quality Monitoring**: Establish regular data quality audits to maintain high standards\n")
	b.WriteString("2. **Enhance Data Collection Processes**: Address root causes of data quality issues at the source\n")
	b.WriteString("3. **Invest in Data Governance**: Develop policies and procedures for maintaining data quality\n")
	b.WriteString("4. **Consider Advanced Analytics**: With improved data quality, explore advanced analytics and machine learning opportunities\n")

	b.WriteString("\n## Next Steps\n\n")
	b.WriteString("• Review the detailed technical report for specific data quality metrics\n")
	b.WriteString("• Download the cleaned dataset for immediate use in business applications\n")
	b.WriteString("• Schedule follow-up data quality assessments to maintain standards\n")

	return b.String()
}

func technicalStory(a *cleaner.Audit) string {
	q := Assess(a)

	var b strings.Builder
	b.WriteString("# Technical Data Quality Analysis Report\n\n")
	b.WriteString("## Technical Overview\n\n")
	fmt.Fprintf(&b, "This data quality analysis was performed with a fixed five-stage cleaning pipeline. The dataset achieved a quality score of **%d%%** based on multiple quality dimensions.\n", q.Score)

	b.WriteString("\n## Methodology\n\n")
	b.WriteString("### Data Quality Assessment Framework\n")
	b.WriteString("• **Completeness**: Missing value analysis and imputation strategies\n")
	b.WriteString("• **Consistency**: Data type validation and format standardization\n")
	b.WriteString("• **Accuracy**: Outlier detection and data validation\n")
	b.WriteString("• **Uniqueness**: Duplicate identification and removal\n")

	b.WriteString("\n## Detailed Analysis\n\n")
	for _, col := range a.Columns {
		cc := a.ColumnChanges[col]
		if cc == nil || cc.IsZero() {
			continue
		}
		fmt.Fprintf(&b, "### Column: `%s`\n\n", col)
		if cc.ImputedMissing != nil && *cc.ImputedMissing > 0 {
			strategy := cc.ImputationStrategy
			if strategy == "" {
				strategy = "statistical method"
			}
			fmt.Fprintf(&b, "• **Missing Values**: %d values imputed using %s\n", *cc.ImputedMissing, strategy)
		}
		if cc.NewNullsFromEmptyStrings != nil && *cc.NewNullsFromEmptyStrings > 0 {
			fmt.Fprintf(&b, "• **Empty String Conversion**: %d empty strings converted to null values\n", *cc.NewNullsFromEmptyStrings)
		}
		if cc.ParsedToDatetime != nil && *cc.ParsedToDatetime > 0 {
			fmt.Fprintf(&b, "• **Date Parsing**: %d values parsed as datetime objects\n", *cc.ParsedToDatetime)
		}
		if cc.EmailsValidAfter != nil && *cc.EmailsValidAfter > 0 {
			fmt.Fprintf(&b, "• **Email Normalization**: %d email addresses normalized\n", *cc.EmailsValidAfter)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Quality Metrics\n\n")
	fmt.Fprintf(&b, "• **Overall Quality Score**: %d%%\n", q.Score)
	fmt.Fprintf(&b, "• **Data Completeness**: %.1f%%\n", q.Completeness)
	fmt.Fprintf(&b, "• **Data Consistency**: %.1f%%\n", q.Consistency)
	fmt.Fprintf(&b, "• **Data Accuracy**: %.1f%%\n", q.Accuracy)

	b.WriteString("\n## Technical Recommendations\n\n")
	b.WriteString("1. **Implement Data Validation Rules**: Add constraints and validation at the data entry level\n")
	b.WriteString("2. **Establish Data Quality Monitoring**: Set up automated quality checks and alerts\n")
	b.WriteString("3. **Optimize Data Processing Pipeline**: Streamline cleaning procedures for efficiency\n")
	b.WriteString("4. **Document Data Quality Standards**: Create documentation for data quality requirements\n")

	return b.String()
}

func casualStory(a *cleaner.Audit) string {
	issues := MajorIssues(a)

	var b strings.Builder
	b.WriteString("# Your Data Cleanup Story 📊\n\n")
	b.WriteString("## Hey there! 👋\n\n")
	b.WriteString("Great news! We just finished cleaning up your data, and here's what happened...\n")

	b.WriteString("\n## What We Found 🔍\n\n")
	if a.DuplicatesRemoved > 0 {
		fmt.Fprintf(&b, "**Oops! We found %d duplicate records** - like having the same photo twice in your gallery! We removed them so your data is now unique and accurate.\n\n", a.DuplicatesRemoved)
	}
	if len(issues) > 0 {
		b.WriteString("**Some data needed a little TLC**:\n")
		for i, issue := range issues {
			if i == 3 {
				break
			}
			fmt.Fprintf(&b, "• %s\n", issue)
		}
		b.WriteString("\n")
	}

	b.WriteString("## The Results ✨\n\n")
	fmt.Fprintf(&b, "**Before**: %s records (some messy ones included)\n", humanize.Comma(int64(a.RowsBefore)))
	fmt.Fprintf(&b, "**After**: %s clean, reliable records\n", humanize.Comma(int64(a.RowsAfter)))
	fmt.Fprintf(&b, "**What changed**: %s records\n\n", signedComma(a.RowsAfter-a.RowsBefore))
	fmt.Fprintf(&b, "We looked through **%d different columns** of your data and made sure everything looks good!\n", len(a.Columns))

	b.WriteString("\n## What This Means for You 🎯\n\n")
	b.WriteString("✅ **Reliable Reports**: Your charts and graphs will now show accurate information\n")
	b.WriteString("✅ **Better Decisions**: You can trust your data to make informed choices\n")
	b.WriteString("✅ **Time Saved**: No more wondering if your data is correct\n")

	b.WriteString("\n## What's Next? 🚀\n\n")
	b.WriteString("1. **Download your clean data** - it's ready to use!\n")
	b.WriteString("2. **Check out the detailed report** - see exactly what we fixed\n")
	b.WriteString("3. **Keep it clean** - consider regular data checkups\n")

	b.WriteString("\n**Thanks for trusting us with your data!** 💪\n")

	return b.String()
}
