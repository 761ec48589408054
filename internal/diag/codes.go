package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// Ввод-вывод и декодирование деревьев
	IOInfo          Code = 1000
	IOLoadFileError Code = 1001
	IOWriteError    Code = 1002
	TreeBadJSON     Code = 1100
	TreeUnknownNode Code = 1101
	TreeBadField    Code = 1102

	// Понижение генераторов и for-of
	LowInfo                    Code = 2000
	LowUnsupportedGenerator    Code = 2001
	LowUnsupportedForOfTarget  Code = 2002
	LowMissingChild            Code = 2003
	LowUnsupportedStatement    Code = 2004
	LowUnsupportedYieldContext Code = 2005

	// Наблюдаемость
	ObsInfo    Code = 3000
	ObsTimings Code = 3001
	ObsCache   Code = 3002
)

var (
	codeDescription = map[Code]string{
		UnknownCode:                "Unknown error",
		IOInfo:                     "I/O information",
		IOLoadFileError:            "I/O load file error",
		IOWriteError:               "I/O write error",
		TreeBadJSON:                "malformed ESTree JSON",
		TreeUnknownNode:            "unknown ESTree node type",
		TreeBadField:               "unexpected ESTree field shape",
		LowInfo:                    "Lowering information",
		LowUnsupportedGenerator:    "unsupported generator function shape",
		LowUnsupportedForOfTarget:  "unsupported for-of binding target",
		LowMissingChild:            "missing expected child node",
		LowUnsupportedStatement:    "statement cannot be split into generator states",
		LowUnsupportedYieldContext: "yield in an expression position that cannot be split",
		ObsInfo:                    "Observability information",
		ObsTimings:                 "Pipeline timings",
		ObsCache:                   "Lowered output served from cache",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("LOW%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
