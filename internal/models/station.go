package models

// Station представляет радиостанцию пользователя.
// Станция связана с владельцем по email (одна станция на пользователя)
// и глобально уникальна по имени-слагу.
type Station struct {
	Name             string `json:"name"`             // Нормализованный слаг, уникальный ключ
	Email            string `json:"email"`            // Email владельца
	YoutubeURL       string `json:"youtubeUrl"`       // Внешняя ссылка на видео, не валидируется
	SocialLink       string `json:"socialLink"`       // Внешняя ссылка на соцсеть, не валидируется
	MixURL           string `json:"mixUrl"`           // Адрес загруженного микса в хранилище, "" — станция не в эфире
	OriginalFilename string `json:"originalFilename"` // Имя исходного файла, токен для детекции повторной загрузки
	AudioDuration    int    `json:"audioDuration"`    // Длительность микса в секундах
	ListenerCount    int    `json:"listenerCount"`    // Счётчик прослушиваний, не бывает отрицательным
	Likes            int    `json:"likes"`            // Счётчик лайков, floor на нуле
	Flags            int    `json:"flags"`            // Счётчик жалоб, floor на нуле
}

// Live сообщает, находится ли станция в эфире: имя занято всегда,
// но без загруженного микса страница считается неопубликованной.
func (s Station) Live() bool {
	return s.MixURL != ""
}

// DummyReaction используется для приёма реакции на станцию.
// Increment — указатель, чтобы отличить отсутствие поля от false.
type DummyReaction struct {
	ReactionType string `json:"reactionType" validate:"required,oneof=likes flags"`
	Increment    *bool  `json:"increment" validate:"required"`
}

// DummyCheckName используется для интерактивной проверки доступности имени.
type DummyCheckName struct {
	Name string `json:"name" validate:"required"`
}
