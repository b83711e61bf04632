package handlers

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

var messages = map[string][2]string{
	"empty_input":          {"A video URL or file is required.", "URL atau berkas video wajib diisi."},
	"invalid_media_type":   {"Please select a video file.", "Silakan pilih berkas video."},
	"unsupported_platform": {"Only YouTube and Dailymotion links are supported.", "Hanya tautan YouTube dan Dailymotion yang didukung."},
	"duration_exceeded":    {"Video duration exceeds %v seconds. Consider using a shorter video.", "Durasi video melebihi %v detik. Gunakan video yang lebih pendek."},
	"duration_unknown":     {"Video duration could not be determined.", "Durasi video tidak dapat ditentukan."},
	"upload_failed":        {"Failed to upload video.", "Gagal mengunggah video."},
	"generation_failed":    {"Failed to generate embed code.", "Gagal membuat kode sematan."},
	"not_found":            {"Resource not found.", "Data tidak ditemukan."},
	"file_too_large":       {"The uploaded file is too large.", "Berkas yang diunggah terlalu besar."},
	"bad_request":          {"Invalid request payload.", "Permintaan tidak valid."},
	"missing_video":        {"Multipart field \"video\" is required.", "Kolom multipart \"video\" wajib diisi."},
	"registry_disabled":    {"Asset registry is not configured.", "Registri aset belum dikonfigurasi."},
	"internal":             {"Something went wrong. Please try again.", "Terjadi kesalahan. Silakan coba lagi."},
}

var messageCatalog = buildCatalog()

func buildCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, tr := range messages {
		_ = b.SetString(language.English, key, tr[0])
		_ = b.SetString(language.Indonesian, key, tr[1])
	}
	return b
}

func localeTag(locale string) language.Tag {
	if locale == "id" {
		return language.Indonesian
	}
	return language.English
}

// localize renders the message registered under key for locale.
func localize(locale, key string, args ...any) string {
	p := message.NewPrinter(localeTag(locale), message.Catalog(messageCatalog))
	return p.Sprintf(key, args...)
}
