package formatter

// specialLanguages holds MangaDex's extended locale codes plus the codes
// whose plain ISO name is not what readers expect. Checked before the
// general ISO table.
var specialLanguages = map[string]string{
	"zh":    "Simplified Chinese",
	"zh-hk": "Traditional Chinese",
	"pt-br": "Brazilian Portuguese",
	"es":    "Castilian Spanish",
	"es-la": "Latin American Spanish",
	"ja-ro": "Romanized Japanese",
	"ko-ro": "Romanized Korean",
	"zh-ro": "Romanized Chinese",
}

var isoLanguages = map[string]string{
	"en": "English", "ja": "Japanese", "ko": "Korean", "fr": "French", "de": "German",
	"it": "Italian", "ru": "Russian", "pt": "Portuguese", "pl": "Polish", "id": "Indonesian",
	"tr": "Turkish", "ar": "Arabic", "th": "Thai", "vi": "Vietnamese", "cs": "Czech",
	"ms": "Malay", "ro": "Romanian", "uk": "Ukrainian", "hu": "Hungarian", "bg": "Bulgarian",
	"fa": "Persian", "he": "Hebrew", "hi": "Hindi", "bn": "Bengali", "el": "Greek",
	"sv": "Swedish", "fi": "Finnish", "da": "Danish", "no": "Norwegian", "nl": "Dutch",
	"ca": "Catalan", "sr": "Serbian", "hr": "Croatian", "sk": "Slovak", "sl": "Slovenian",
	"et": "Estonian", "lv": "Latvian", "lt": "Lithuanian", "ta": "Tamil", "te": "Telugu",
	"ml": "Malayalam", "kn": "Kannada", "mr": "Marathi", "gu": "Gujarati", "pa": "Punjabi",
	"ur": "Urdu", "my": "Burmese", "km": "Khmer", "lo": "Lao", "si": "Sinhala",
	"am": "Amharic", "sw": "Swahili", "zu": "Zulu", "xh": "Xhosa", "st": "Southern Sotho",
	"tn": "Tswana", "ts": "Tsonga", "ss": "Swati", "ve": "Venda", "nr": "Southern Ndebele",
	"nd": "Northern Ndebele", "af": "Afrikaans", "sq": "Albanian", "bs": "Bosnian",
	"mk": "Macedonian", "mt": "Maltese", "ga": "Irish", "cy": "Welsh", "gd": "Scottish Gaelic",
	"br": "Breton", "eu": "Basque", "gl": "Galician", "oc": "Occitan", "lb": "Luxembourgish",
	"is": "Icelandic", "fo": "Faroese", "kl": "Greenlandic", "sm": "Samoan", "to": "Tongan",
	"fj": "Fijian", "mi": "Maori", "qu": "Quechua", "ay": "Aymara", "gn": "Guarani",
	"tt": "Tatar", "ba": "Bashkir", "cv": "Chuvash", "ce": "Chechen", "os": "Ossetian",
	"av": "Avaric", "kv": "Komi", "cu": "Church Slavic", "tk": "Turkmen", "ky": "Kyrgyz",
	"kk": "Kazakh", "uz": "Uzbek", "tg": "Tajik", "mn": "Mongolian", "ne": "Nepali",
	"ps": "Pashto", "sd": "Sindhi", "ug": "Uyghur", "az": "Azerbaijani", "ka": "Georgian",
	"hy": "Armenian", "ab": "Abkhazian", "sah": "Yakut", "ae": "Avestan",
}

// LanguageName resolves a locale code to a display name. Special MangaDex
// codes win over the plain ISO name; unknown codes pass through unchanged.
func LanguageName(code string) string {
	if name, ok := specialLanguages[code]; ok {
		return name
	}
	if name, ok := isoLanguages[code]; ok {
		return name
	}
	return code
}
