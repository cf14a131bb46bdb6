package jatext

import "fmt"

// The tables below are data, not logic. Each source rune at index i maps to
// the canonical rune at the same index of its partner.
var (
	// fullWidthSource lists the runes folded by NormalizeChar.
	fullWidthSource = []rune("　！″＃＄％＆′（）＊＋‐／" +
		"０１２３４５６７８９：；＜＝＞？＠" +
		"ＡＢＣＤＥＦＧＨＩＪＫＬＭＮＯＰＱＲＳＴＵＶＷＸＹＺ［］＾＿‘" +
		"ａｂｃｄｅｆｇｈｉｊｋｌｍｎｏｐｑｒｓｔｕｖｗｘｙｚ｛｜｝〜" +
		"ｧｨｩｪｫｬｭｮｯｰｱｲｳｴｵｶｷｸｹｺｻｼｽｾｿﾀﾁﾂﾃﾄﾅﾆﾇﾈﾉﾊﾋﾌﾍﾎﾏﾐﾑﾒﾓﾔﾕﾖﾗﾘﾙﾚﾛﾜｦﾝﾞﾟ" +
		"｡．，､｢｣･" +
		// Full-width forms whose ASCII partner is otherwise reached through
		// a typographic variant above, plus the combining sound marks.
		"＂＇－＼｀～\u3099\u309a")

	fullWidthCanonical = []rune(" !\"#$%&'()*+-/" +
		"0123456789:;<=>?@" +
		"ABCDEFGHIJKLMNOPQRSTUVWXYZ[]^_`" +
		"abcdefghijklmnopqrstuvwxyz{|}~" +
		"ァィゥェォャュョッーアイウエオカキクケコサシスセソタチツテトナニヌネノハヒフヘホマミムメモヤユヨラリルレロワヲン゛゜" +
		"。。、、「」・" +
		"\"'-\\`~゛゜")

	// ウ is part of the voiced table so that "ウ゛" folds into ヴ.
	dakutenSource    = []rune("ウカキクケコサシスセソタチツテトハヒフヘホ")
	dakutenCanonical = []rune("ヴガギグゲゴザジズゼゾダヂヅデドバビブベボ")

	handakutenSource    = []rune("ハヒフヘホ")
	handakutenCanonical = []rune("パピプペポ")
)

// Lookup maps are built once when the package is initialized and only read
// afterwards.
var (
	charTable       = buildTable(fullWidthSource, fullWidthCanonical)
	dakutenTable    = buildTable(dakutenSource, dakutenCanonical)
	handakutenTable = buildTable(handakutenSource, handakutenCanonical)
)

func buildTable(source, canonical []rune) map[rune]rune {
	if len(source) != len(canonical) {
		panic(fmt.Sprintf("jatext: table length mismatch: %d source runes, %d canonical runes", len(source), len(canonical)))
	}
	m := make(map[rune]rune, len(source))
	for i, r := range source {
		m[r] = canonical[i]
	}
	return m
}
