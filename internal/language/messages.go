package language

// System prompts per locale, kept faithful to the product's original voice.
var systemPrompts = map[Locale]string{
	Uzbek: "Siz yordamchi AI assistentsiz. Foydalanuvchi savollariga aniq va foydali javoblar bering. " +
		"Javoblaringiz qisqa, aniq va tushunarli bo'lsin.",
	Russian: "Вы AI-помощник. Отвечайте точно и полезно на вопросы пользователя. " +
		"Ваши ответы должны быть краткими, точными и понятными.",
	English: "You are an AI assistant. Provide accurate and helpful answers to user questions. " +
		"Keep your answers concise, accurate and understandable.",
}

// Grounding instruction appended to the system prompt only when the tenant
// has an active knowledge artifact.
var groundingPrompts = map[Locale]string{
	Uzbek: "Quyidagi kontekstni asosiy ma'lumot manbai sifatida ishlating. " +
		"Kontekst yetarli bo'lmasa, umumiy bilimlaringizdan foydalaning.",
	Russian: "Используйте приведённый ниже контекст как основной источник информации. " +
		"Обращайтесь к общим знаниям только если контекста недостаточно.",
	English: "Use the context below as the primary source of information. " +
		"Fall back to general knowledge only when the context is insufficient.",
}

// Short apologies per provider failure category. Raw provider error text is
// never shown in these.
var (
	configErrors = map[Locale]string{
		Uzbek:   "AI xizmati sozlanmagan. Administratorga murojaat qiling.",
		Russian: "Сервис AI не настроен. Обратитесь к администратору.",
		English: "The AI service is not configured. Please contact the administrator.",
	}
	quotaErrors = map[Locale]string{
		Uzbek:   "So'rovlar limiti tugadi. Birozdan keyin qayta urinib ko'ring.",
		Russian: "Лимит запросов исчерпан. Повторите попытку позже.",
		English: "The request quota has been exceeded. Please try again later.",
	}
	genericErrors = map[Locale]string{
		Uzbek:   "Xatolik yuz berdi. Qaytadan urinib ko'ring.",
		Russian: "Произошла ошибка. Попробуйте еще раз.",
		English: "An error occurred. Please try again.",
	}
)

// SystemPrompt returns the locale's system instruction.
func SystemPrompt(l Locale) string {
	if p, ok := systemPrompts[l]; ok {
		return p
	}
	return systemPrompts[Default]
}

// GroundingPrompt returns the locale's context-priority instruction.
func GroundingPrompt(l Locale) string {
	if p, ok := groundingPrompts[l]; ok {
		return p
	}
	return groundingPrompts[Default]
}

// ConfigErrorMessage is shown when the AI credential is missing or invalid.
func ConfigErrorMessage(l Locale) string {
	return pick(configErrors, l)
}

// QuotaErrorMessage is shown when the provider reports rate or quota limits.
func QuotaErrorMessage(l Locale) string {
	return pick(quotaErrors, l)
}

// GenericErrorMessage is shown for transient or unclassified provider errors.
func GenericErrorMessage(l Locale) string {
	return pick(genericErrors, l)
}

func pick(table map[Locale]string, l Locale) string {
	if m, ok := table[l]; ok {
		return m
	}
	return table[Default]
}
