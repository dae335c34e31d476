package utils

const (
	SuccessColor = 0x00FF00
	ErrorColor   = 0xFF0000
	WarningColor = 0xFFFF00
	InfoColor    = 0x00FFFF
)
