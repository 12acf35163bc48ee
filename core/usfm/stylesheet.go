package usfm

import "github.com/FocuswithJustin/sfmkit/core/style"

// Nesting ranks for the default stylesheet. A marker opens inside the
// innermost open element only when its rank is strictly deeper, so
// chapters nest under books and everything else nests under chapters.
const (
	rankBook      = 1 // \id
	rankChapter   = 2 // chapter markers and identification headers
	rankParagraph = 3 // titles, headings, paragraphs, poetry, lists
	rankVerse     = 4 // verses and table rows
	rankChar      = 5 // character styles, footnotes, cross references
	rankNoteChar  = 6 // content markers inside notes
)

func book(name, desc string) *style.Entry {
	return &style.Entry{Name: name, Type: style.Paragraph, Rank: rankBook, Description: desc}
}

func ident(name, desc string) *style.Entry {
	return &style.Entry{Name: name, Type: style.Paragraph, Rank: rankChapter, Description: desc}
}

func para(name, desc string) *style.Entry {
	return &style.Entry{Name: name, Type: style.Paragraph, Rank: rankParagraph, Description: desc}
}

func row(name, desc string) *style.Entry {
	return &style.Entry{Name: name, Type: style.Paragraph, Rank: rankVerse, Description: desc}
}

func cell(name, desc string) *style.Entry {
	return &style.Entry{Name: name, Type: style.Paragraph, Rank: rankChar, Description: desc}
}

func char(name, desc string) *style.Entry {
	return &style.Entry{Name: name, Type: style.Character, Rank: rankChar, EndMarker: true, Description: desc}
}

func note(name, desc string) *style.Entry {
	return &style.Entry{Name: name, Type: style.Note, Rank: rankChar, EndMarker: true, NumArgs: 1, Description: desc}
}

func notechar(name, desc string) *style.Entry {
	return &style.Entry{Name: name, Type: style.Character, Rank: rankNoteChar, EndMarker: true, Description: desc}
}

func milestone(name, desc string) *style.Entry {
	return &style.Entry{Name: name, Type: style.Milestone, Rank: rankParagraph, Description: desc}
}

// Default is the embedded stylesheet covering the common USFM 2.x
// marker set. It is immutable and safely shared across parses.
var Default = makeDefault()

func makeDefault() style.Sheet {
	entries := []*style.Entry{
		// Identification.
		book("id", "file identification"),
		ident("ide", "character encoding"),
		ident("usfm", "USFM version"),
		ident("sts", "status code"),
		para("rem", "remark"),
		para("h", "running header text"),
		para("toc1", "long table of contents text"),
		para("toc2", "short table of contents text"),
		para("toc3", "book abbreviation"),

		// Titles and headings.
		para("mt", "main title"),
		para("mt1", "main title level 1"),
		para("mt2", "main title level 2"),
		para("mt3", "main title level 3"),
		para("mte", "main title at ending"),
		para("ms", "major section heading"),
		para("ms1", "major section heading level 1"),
		para("ms2", "major section heading level 2"),
		para("mr", "major section range reference"),
		para("s", "section heading"),
		para("s1", "section heading level 1"),
		para("s2", "section heading level 2"),
		para("s3", "section heading level 3"),
		para("sr", "section range reference"),
		para("r", "parallel passage reference"),
		para("d", "descriptive title"),
		para("sp", "speaker identification"),

		// Chapters and verses.
		{Name: "c", Type: style.Paragraph, Rank: rankChapter, NumArgs: 1, Description: "chapter number"},
		para("cl", "chapter label"),
		para("cp", "published chapter character"),
		para("cd", "chapter description"),
		{Name: "v", Type: style.Paragraph, Rank: rankVerse, NumArgs: 1, Description: "verse number"},
		char("va", "alternate verse number"),
		char("vp", "published verse character"),

		// Paragraphs.
		para("p", "paragraph"),
		para("m", "margin paragraph"),
		para("po", "letter opening"),
		para("pr", "right-aligned paragraph"),
		para("cls", "letter closing"),
		para("pmo", "embedded text opening"),
		para("pm", "embedded text paragraph"),
		para("pmc", "embedded text closing"),
		para("pmr", "embedded text refrain"),
		para("pi", "indented paragraph"),
		para("pi1", "indented paragraph level 1"),
		para("pi2", "indented paragraph level 2"),
		para("pi3", "indented paragraph level 3"),
		para("mi", "indented margin paragraph"),
		para("nb", "no break"),
		para("pc", "centered paragraph"),
		milestone("b", "blank line"),
		milestone("pb", "page break"),

		// Poetry.
		para("q", "poetic line"),
		para("q1", "poetic line level 1"),
		para("q2", "poetic line level 2"),
		para("q3", "poetic line level 3"),
		para("q4", "poetic line level 4"),
		para("qr", "right-aligned poetic line"),
		para("qc", "centered poetic line"),
		char("qs", "selah"),
		para("qa", "acrostic heading"),
		char("qac", "acrostic letter"),
		para("qm", "embedded poetic line"),
		para("qm1", "embedded poetic line level 1"),
		para("qm2", "embedded poetic line level 2"),
		para("qd", "hebrew note"),

		// Lists.
		para("lh", "list header"),
		para("li", "list entry"),
		para("li1", "list entry level 1"),
		para("li2", "list entry level 2"),
		para("li3", "list entry level 3"),
		para("li4", "list entry level 4"),
		para("lf", "list footer"),
		para("lim", "embedded list entry"),

		// Tables.
		row("tr", "table row"),
		cell("th1", "table heading cell 1"),
		cell("th2", "table heading cell 2"),
		cell("th3", "table heading cell 3"),
		cell("thr1", "right-aligned table heading cell 1"),
		cell("thr2", "right-aligned table heading cell 2"),
		cell("tc1", "table cell 1"),
		cell("tc2", "table cell 2"),
		cell("tc3", "table cell 3"),
		cell("tcr1", "right-aligned table cell 1"),
		cell("tcr2", "right-aligned table cell 2"),

		// Character styles.
		char("add", "translator addition"),
		char("bk", "quoted book title"),
		char("dc", "deuterocanonical content"),
		char("k", "keyword"),
		char("nd", "name of God"),
		char("ord", "ordinal ending"),
		char("pn", "proper name"),
		char("qt", "quoted text"),
		char("sig", "signature"),
		char("sls", "secondary language source"),
		char("tl", "transliterated word"),
		char("wj", "words of Jesus"),
		char("em", "emphasis"),
		char("bd", "bold"),
		char("it", "italic"),
		char("bdit", "bold italic"),
		char("no", "normal"),
		char("sc", "small caps"),
		char("sup", "superscript"),
		char("w", "wordlist entry"),
		char("wg", "greek wordlist entry"),
		char("wh", "hebrew wordlist entry"),
		char("ndx", "index entry"),
		char("pro", "pronunciation"),
		char("rq", "inline quotation reference"),
		char("fig", "figure"),

		// Footnotes.
		note("f", "footnote"),
		note("fe", "endnote"),
		notechar("fr", "footnote origin reference"),
		notechar("fk", "footnote keyword"),
		notechar("fq", "footnote translation quotation"),
		notechar("fqa", "footnote alternate translation"),
		notechar("fl", "footnote label"),
		notechar("fw", "footnote witness list"),
		notechar("fp", "footnote additional paragraph"),
		notechar("fv", "footnote verse number"),
		notechar("ft", "footnote text"),
		notechar("fdc", "footnote deuterocanonical content"),
		notechar("fm", "footnote reference mark"),

		// Cross references.
		note("x", "cross reference"),
		notechar("xo", "cross reference origin"),
		notechar("xk", "cross reference keyword"),
		notechar("xq", "cross reference quotation"),
		notechar("xt", "cross reference target"),
		notechar("xot", "cross reference old testament target"),
		notechar("xnt", "cross reference new testament target"),
		notechar("xdc", "cross reference deuterocanonical target"),
	}

	sheet := make(style.Sheet, len(entries))
	for _, e := range entries {
		sheet[e.Name] = e
	}
	return sheet
}

// BookName maps USFM book IDs to their English names.
var BookName = map[string]string{
	"GEN": "Genesis", "EXO": "Exodus", "LEV": "Leviticus", "NUM": "Numbers",
	"DEU": "Deuteronomy", "JOS": "Joshua", "JDG": "Judges", "RUT": "Ruth",
	"1SA": "1 Samuel", "2SA": "2 Samuel", "1KI": "1 Kings", "2KI": "2 Kings",
	"1CH": "1 Chronicles", "2CH": "2 Chronicles", "EZR": "Ezra", "NEH": "Nehemiah",
	"EST": "Esther", "JOB": "Job", "PSA": "Psalms", "PRO": "Proverbs",
	"ECC": "Ecclesiastes", "SNG": "Song of Solomon", "ISA": "Isaiah", "JER": "Jeremiah",
	"LAM": "Lamentations", "EZK": "Ezekiel", "DAN": "Daniel", "HOS": "Hosea",
	"JOL": "Joel", "AMO": "Amos", "OBA": "Obadiah", "JON": "Jonah",
	"MIC": "Micah", "NAM": "Nahum", "HAB": "Habakkuk", "ZEP": "Zephaniah",
	"HAG": "Haggai", "ZEC": "Zechariah", "MAL": "Malachi",
	"MAT": "Matthew", "MRK": "Mark", "LUK": "Luke", "JHN": "John",
	"ACT": "Acts", "ROM": "Romans", "1CO": "1 Corinthians", "2CO": "2 Corinthians",
	"GAL": "Galatians", "EPH": "Ephesians", "PHP": "Philippians", "COL": "Colossians",
	"1TH": "1 Thessalonians", "2TH": "2 Thessalonians", "1TI": "1 Timothy", "2TI": "2 Timothy",
	"TIT": "Titus", "PHM": "Philemon", "HEB": "Hebrews", "JAS": "James",
	"1PE": "1 Peter", "2PE": "2 Peter", "1JN": "1 John", "2JN": "2 John",
	"3JN": "3 John", "JUD": "Jude", "REV": "Revelation",
}
