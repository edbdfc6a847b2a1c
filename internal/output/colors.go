package output

const (
	colorReset   ansiString = "\033[0m"
	colorRed     ansiString = "\033[31m"
	colorGreen   ansiString = "\033[32m"
	colorYellow  ansiString = "\033[33m"
	colorBlue    ansiString = "\033[34m"
	colorMagenta ansiString = "\033[35m"
	colorCyan    ansiString = "\033[36m"
	colorDim     ansiString = "\033[2m"
	colorBold    ansiString = "\033[1m"
	colorBoldRed ansiString = "\033[1;31m"
	colorBoldYel ansiString = "\033[1;33m"
)
