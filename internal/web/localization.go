package web

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Default language
const DefaultLanguage = "en"

// Text keys for localization
const (
	KeyAppTitle            = "app_title"
	KeyEnterURL            = "enter_url"
	KeyFetchFormats        = "fetch_formats"
	KeyAvailableFormats    = "available_formats"
	KeyFormatID            = "format_id"
	KeyResolution          = "resolution"
	KeyAudioCodec          = "audio_codec"
	KeyVideoCodec          = "video_codec"
	KeyExtension           = "extension"
	KeyFilesize            = "filesize"
	KeyDirectLink          = "direct_link"
	KeyOpen                = "open"
	KeyDownload            = "download"
	KeyDownloadSelected    = "download_selected"
	KeyDownloadDirectory   = "download_directory"
	KeyBack                = "back"
	KeyPleaseEnterURL      = "please_enter_url"
	KeyNoFormats           = "no_formats"
	KeySelectFormat        = "select_format"
	KeyLocationNotSelected = "location_not_selected"
	KeyInvalidDestination  = "invalid_destination"
	KeyDownloadError       = "download_error"
	KeyFormatsError        = "formats_error"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: DefaultLanguage,
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language. Unknown languages are ignored.
func (l *Localization) SetLanguage(lang string) {
	if lang == "system" || lang == "" {
		lang = DefaultLanguage
	}

	if _, exists := l.texts[lang]; exists {
		l.currentLanguage = lang
	}
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Fallback to English
	if texts, exists := l.texts[DefaultLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Final fallback - return key itself
	return key
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// GetAvailableLanguages returns map of available languages with their display names
func (l *Localization) GetAvailableLanguages() map[string]string {
	return map[string]string{
		"en": "English",
		"ru": "Русский",
		"pt": "Português",
	}
}

// initializeTexts initializes all text translations
func (l *Localization) initializeTexts() {
	// English texts
	l.texts["en"] = map[string]string{
		KeyAppTitle:            "YT Downloader",
		KeyEnterURL:            "Enter video URL (https://youtube.com/watch?v=...)",
		KeyFetchFormats:        "Fetch formats",
		KeyAvailableFormats:    "Available formats",
		KeyFormatID:            "Format ID",
		KeyResolution:          "Resolution",
		KeyAudioCodec:          "Audio codec",
		KeyVideoCodec:          "Video codec",
		KeyExtension:           "Extension",
		KeyFilesize:            "File size",
		KeyDirectLink:          "Direct link",
		KeyOpen:                "Open",
		KeyDownload:            "Download",
		KeyDownloadSelected:    "Download selected format",
		KeyDownloadDirectory:   "Download directory",
		KeyBack:                "Back",
		KeyPleaseEnterURL:      "Please enter a valid URL",
		KeyNoFormats:           "No formats available for this video",
		KeySelectFormat:        "Please select a valid format",
		KeyLocationNotSelected: "Download location not selected. Aborting download.",
		KeyInvalidDestination:  "The selected download location is not allowed",
		KeyDownloadError:       "An error occurred while downloading the video",
		KeyFormatsError:        "Could not retrieve formats for this video",
	}

	// Russian texts
	l.texts["ru"] = map[string]string{
		KeyAppTitle:            "YT Загрузчик",
		KeyEnterURL:            "Введите URL видео (https://youtube.com/watch?v=...)",
		KeyFetchFormats:        "Получить форматы",
		KeyAvailableFormats:    "Доступные форматы",
		KeyFormatID:            "ID формата",
		KeyResolution:          "Разрешение",
		KeyAudioCodec:          "Аудиокодек",
		KeyVideoCodec:          "Видеокодек",
		KeyExtension:           "Расширение",
		KeyFilesize:            "Размер файла",
		KeyDirectLink:          "Прямая ссылка",
		KeyOpen:                "Открыть",
		KeyDownload:            "Скачать",
		KeyDownloadSelected:    "Скачать выбранный формат",
		KeyDownloadDirectory:   "Папка загрузки",
		KeyBack:                "Назад",
		KeyPleaseEnterURL:      "Пожалуйста, введите корректный URL",
		KeyNoFormats:           "Для этого видео нет доступных форматов",
		KeySelectFormat:        "Пожалуйста, выберите формат",
		KeyLocationNotSelected: "Папка загрузки не выбрана. Загрузка отменена.",
		KeyInvalidDestination:  "Выбранная папка загрузки недопустима",
		KeyDownloadError:       "Произошла ошибка при загрузке видео",
		KeyFormatsError:        "Не удалось получить форматы для этого видео",
	}

	// Portuguese texts
	l.texts["pt"] = map[string]string{
		KeyAppTitle:            "YT Downloader",
		KeyEnterURL:            "Digite a URL do vídeo (https://youtube.com/watch?v=...)",
		KeyFetchFormats:        "Buscar formatos",
		KeyAvailableFormats:    "Formatos disponíveis",
		KeyFormatID:            "ID do formato",
		KeyResolution:          "Resolução",
		KeyAudioCodec:          "Codec de áudio",
		KeyVideoCodec:          "Codec de vídeo",
		KeyExtension:           "Extensão",
		KeyFilesize:            "Tamanho",
		KeyDirectLink:          "Link direto",
		KeyOpen:                "Abrir",
		KeyDownload:            "Baixar",
		KeyDownloadSelected:    "Baixar formato selecionado",
		KeyDownloadDirectory:   "Diretório de Download",
		KeyBack:                "Voltar",
		KeyPleaseEnterURL:      "Por favor, digite uma URL válida",
		KeyNoFormats:           "Nenhum formato disponível para este vídeo",
		KeySelectFormat:        "Por favor, selecione um formato válido",
		KeyLocationNotSelected: "Local de download não selecionado. Download cancelado.",
		KeyInvalidDestination:  "O local de download selecionado não é permitido",
		KeyDownloadError:       "Ocorreu um erro ao baixar o vídeo",
		KeyFormatsError:        "Não foi possível obter os formatos deste vídeo",
	}
}
