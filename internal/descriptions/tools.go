package descriptions

// Comprehensive tool descriptions with practical examples and use cases

const (
	// Extraction Tools
	AttendanceExtractFileDescription = `Extract a structured attendance record from a college attendance report PDF.

**When to use:** You have an attendance report PDF on disk and need the per-subject presents, totals, and percentages plus the overall summary.

**Why it's useful:** Turns the report's fixed-width text layout into a clean structured record, recomputes every percentage from the raw counts, and assesses each subject against the attendance target.

**Examples:**
• Semester check: "Extract attendance-sem2.pdf to see my current percentage in every subject"
• Advisor review: "Pull the record from shetty-attendance.pdf for the counseling session"
• Batch intake: "Extract each report in /reports/ and collect the overall percentages"

**Common workflows:**
1. Planning: Extract record → Check overall status → Ask attendance_classes_needed for weak subjects
2. Monitoring: Extract after each week → Compare overall percentage → Adjust attendance
3. Discovery: attendance_search_directory → attendance_validate_file → attendance_extract_file

**Best practices:** Validate the file first in automated flows; repeated extractions of the same report are served from the cache.`

	AttendanceExtractTextDescription = `Extract a structured attendance record from raw report text.

**When to use:** You already have the report text, copied from a student portal or extracted earlier, and want the structured record without touching the filesystem.

**Why it's useful:** Runs the same extraction pipeline as the file tool on any text you supply, so portal copy-paste and previously extracted content get identical treatment. Unusable text yields an empty record instead of an error.

**Examples:**
• Portal paste: "Parse this attendance table I copied from the college ERP"
• Re-analysis: "Re-extract the text from last week's report with the current rules"
• Pipeline step: "Feed OCR output of a scanned report into the extractor"

**Common workflows:**
1. Portal Flow: Copy portal text → Extract record → Project classes needed
2. OCR Flow: OCR scanned report → Extract from text → Review per-subject status
3. Debugging: Extract from file → Tweak the text → Extract from text to compare

**Best practices:** Keep the column spacing intact when pasting; rows lose their alignment when collapsed to single spaces.`

	// Projection Tools
	AttendanceClassesNeededDescription = `Calculate how many consecutive classes must be attended to reach a target percentage.

**When to use:** Attendance has slipped below the target and you need the exact number of back-to-back classes required to climb back over it.

**Why it's useful:** Answers the question students actually ask. Returns the minimal count, or reports the target as unreachable when no finite number of classes can get there.

**Examples:**
• Recovery plan: "I have attended 70 of 100 classes, how many more for 75%?"
• Subject triage: "Check classes needed for each subject below target in my record"
• What-if: "How many classes would 85% take from here?"

**Common workflows:**
1. Recovery: Extract record → Find critical subjects → Get classes needed per subject
2. Goal Setting: Pick a target → Get classes needed → Track weekly progress
3. Counseling: Extract record → Present the per-subject numbers → Agree on a plan

**Best practices:** Omit the target to use the server's configured default (typically the college's 75% requirement).`

	AttendanceClassesCanMissDescription = `Calculate how many of the upcoming classes can be missed while staying at or above the target.

**When to use:** Attendance is currently at or above target and you want to know how much slack the next stretch of classes allows.

**Why it's useful:** Gives a safe-to-miss budget over a concrete horizon instead of a vague percentage, clamped to the number of upcoming classes.

**Examples:**
• Trip planning: "At 80 of 100, how many of the next 10 classes can I skip for the fest?"
• Margin check: "Am I safe to miss two lab sessions this month?"
• Edge check: "At exactly 75%, what does missing even one class do?"

**Common workflows:**
1. Leave Planning: Extract record → Get can-miss budget → Book the days off
2. Safety Margin: Check budget per subject → Avoid subjects with zero slack
3. Semester End: Count remaining classes → Get the budget → Plan final weeks

**Best practices:** A result of 0 with attendance above target means the margin is thinner than one class; attend everything.`

	AttendanceTrendDescription = `Project attendance percentage over the next several classes under best and worst case.

**When to use:** You want to see where the percentage lands after each of the next N classes, both if all are attended and if all are missed.

**Why it's useful:** Shows the trajectory rather than a single number, which makes the cost of each missed class and the payoff of each attended one concrete.

**Examples:**
• Outlook: "Show my percentage over the next 15 classes from 70 of 100"
• Motivation: "How fast does 59% recover if I attend everything this month?"
• Risk view: "How far does 76% fall if I miss the next two weeks?"

**Common workflows:**
1. Weekly Review: Extract record → Project trend → Pick the week's attendance goal
2. Advising: Show the two curves → Point at the crossing of the target line
3. Comparison: Run the trend per subject → Prioritize the steepest recovery

**Best practices:** The first point is always the current percentage; omit the horizon to use the configured default.`

	// File and Discovery Tools
	AttendanceValidateFileDescription = `Verify a report file is a readable PDF before extraction.

**When to use:** Before extracting from any file, especially in automated flows or when handling files of unknown origin.

**Why it's useful:** Catches missing files, wrong extensions, oversized and corrupted PDFs early, and reports page count, PDF version, and encryption from a structural check.

**Examples:**
• Pre-flight: "Validate attendance-sem2.pdf before the weekly extraction job"
• Download check: "Check the portal download completed and is readable"
• Triage: "Find out why extraction of report-old.pdf returns an empty record"

**Common workflows:**
1. Automated Processing: Validate → Extract if valid → Log failures for review
2. Intake: Validate each new download → Reject broken files → Archive good ones
3. Debugging: Validate → Read the message → Fix the file or fetch it again

**Best practices:** Encrypted reports validate as unreadable; export an unprotected copy from the portal instead.`

	AttendanceSearchDirectoryDescription = `Find attendance report PDFs in a directory with optional fuzzy search.

**When to use:** You need to locate report files by name fragment or list what is available before extracting.

**Why it's useful:** Finds files without exact names, matching each query word against the filename, and stays inside the configured reports directory.

**Examples:**
• Locate: "Find the semester 2 report somewhere under /reports/"
• Filter: "List files matching 'shetty 2024' in the default directory"
• Inventory: "Show every report PDF available to the server"

**Common workflows:**
1. Discovery: Search directory → Validate the match → Extract the record
2. Cleanup: List all reports → Spot duplicates → Remove stale copies
3. Batch: Search by student name → Extract each hit → Compare semesters

**Best practices:** Leave the directory empty to search the configured reports directory; queries are case-insensitive.`

	AttendanceStatsDirectoryDescription = `Summarize the attendance report PDFs in a directory.

**When to use:** You want a quick overview of a reports folder: how many files, total size, largest and smallest.

**Why it's useful:** Sizes up a collection before batch extraction and spots anomalies like a truncated download or a misplaced scan.

**Examples:**
• Overview: "Summarize /reports/ before the end-of-term run"
• Anomaly check: "Is any report file suspiciously small?"
• Capacity: "How much space do the archived reports take?"

**Common workflows:**
1. Batch Prep: Get directory stats → Estimate run time → Start extraction
2. Housekeeping: Check totals → Archive old semesters → Re-check
3. Verification: Compare file count against the class roster → Chase missing reports

**Best practices:** Counts only readable PDF files within the size limit; combine with attendance_search_directory for the per-file listing.`

	// Utility Tools
	AttendanceCacheClearDescription = `Clear the extraction cache.

**When to use:** Report files were edited in place, extraction rules changed, or you want to force fresh extractions.

**Why it's useful:** Extractions are cached by text content, so a changed rule set or corrected report would otherwise keep serving the old record.

**Examples:**
• Rules reload: "Clear the cache after updating the rules file"
• Fresh run: "Drop cached records before the audited end-of-term extraction"
• Troubleshooting: "Rule out a stale cache entry while debugging an odd record"

**Common workflows:**
1. Rule Change: Update rules file → Restart server → Clear cache → Re-extract
2. Audit: Clear cache → Extract every report fresh → Record the results
3. Debugging: Clear cache → Re-extract one file → Compare with the cached record

**Best practices:** Rarely needed in normal use; the cache keys on exact text, so an updated file misses the cache naturally.`

	AttendanceServerInfoDescription = `Get server status, available tools, directory contents, and usage guidance.

**When to use:** Starting a session with the attendance server, checking configuration, or discovering what the tools can do.

**Why it's useful:** One call returns the configured reports directory with its contents, the attendance target and projection defaults, cache statistics, and a guide to the tool set.

**Examples:**
• Session start: "Check the server is up and see which reports are available"
• Config check: "Confirm the target percentage and upcoming-classes defaults"
• Discovery: "List every tool with its parameters before scripting a workflow"

**Common workflows:**
1. Startup: Get server info → Note the default directory → Search or extract
2. Debugging: Check configured directory → Verify the file is inside it → Retry
3. Scripting: Read the tool inventory → Build the call sequence → Run it

**Best practices:** Directory contents are cached briefly for fast responses; large directories may be truncated, use attendance_search_directory for a full listing.`
)

// ToolDescriptions maps tool names to their comprehensive descriptions
var ToolDescriptions = map[string]string{
	"attendance_extract_file":     AttendanceExtractFileDescription,
	"attendance_extract_text":     AttendanceExtractTextDescription,
	"attendance_classes_needed":   AttendanceClassesNeededDescription,
	"attendance_classes_can_miss": AttendanceClassesCanMissDescription,
	"attendance_trend":            AttendanceTrendDescription,
	"attendance_validate_file":    AttendanceValidateFileDescription,
	"attendance_search_directory": AttendanceSearchDirectoryDescription,
	"attendance_stats_directory":  AttendanceStatsDirectoryDescription,
	"attendance_cache_clear":      AttendanceCacheClearDescription,
	"attendance_server_info":      AttendanceServerInfoDescription,
}

// GetToolDescription returns the comprehensive description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns a list of all available tool names
func GetAllToolNames() []string {
	var names []string
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	return names
}
