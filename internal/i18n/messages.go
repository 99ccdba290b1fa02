package i18n

var messages = map[string]map[string]string{
	"pt": {
		"capture.nameRequired":       "Nome é obrigatório",
		"capture.nameMin":            "Nome deve ter pelo menos 3 caracteres",
		"capture.phoneRequired":      "WhatsApp é obrigatório",
		"capture.countryUnknown":     "País não suportado",
		"capture.phoneError.br":      "Número deve ter 11 dígitos (DDD + número)",
		"capture.phoneError.usca":    "Número deve ter 10 dígitos",
		"capture.phoneError.gb":      "Número deve ter 10 ou 11 dígitos",
		"capture.phoneError.default": "Número deve ter entre 8 e 12 dígitos",
		"capture.saveError":          "Não foi possível concluir seu cadastro. Tente novamente.",
		"capture.inFlight":           "Seu cadastro já está sendo enviado",
		"header.welcome":             "Bem-vindo, {{name}}!",
		"cta.defaultName":            "Usuário",
		"cta.whatsappMessage":        "Olá! Quero participar do Grupo VIP Multi Crypto, meu nome é {{name}}.",
	},
	"en": {
		"capture.nameRequired":       "Name is required",
		"capture.nameMin":            "Name must be at least 3 characters",
		"capture.phoneRequired":      "WhatsApp is required",
		"capture.countryUnknown":     "Country not supported",
		"capture.phoneError.br":      "Number must have 11 digits (area code + number)",
		"capture.phoneError.usca":    "Number must have 10 digits",
		"capture.phoneError.gb":      "Number must have 10 or 11 digits",
		"capture.phoneError.default": "Number must have between 8 and 12 digits",
		"capture.saveError":          "We could not complete your registration. Please try again.",
		"capture.inFlight":           "Your registration is already being sent",
		"header.welcome":             "Welcome, {{name}}!",
		"cta.defaultName":            "User",
		"cta.whatsappMessage":        "Hi! I want to join the Multi Crypto VIP Group, my name is {{name}}.",
	},
	"es": {
		"capture.nameRequired":       "El nombre es obligatorio",
		"capture.nameMin":            "El nombre debe tener al menos 3 caracteres",
		"capture.phoneRequired":      "WhatsApp es obligatorio",
		"capture.countryUnknown":     "País no soportado",
		"capture.phoneError.br":      "El número debe tener 11 dígitos (código de área + número)",
		"capture.phoneError.usca":    "El número debe tener 10 dígitos",
		"capture.phoneError.gb":      "El número debe tener 10 u 11 dígitos",
		"capture.phoneError.default": "El número debe tener entre 8 y 12 dígitos",
		"capture.saveError":          "No pudimos completar tu registro. Inténtalo de nuevo.",
		"capture.inFlight":           "Tu registro ya se está enviando",
		"header.welcome":             "¡Bienvenido, {{name}}!",
		"cta.defaultName":            "Usuario",
		"cta.whatsappMessage":        "¡Hola! Quiero participar en el Grupo VIP Multi Crypto, mi nombre es {{name}}.",
	},
}
