package business

import (
	"errors"

	"github.com/stavropolsky/tg-track/internal/domain/admin/consts"
	adminerrors "github.com/stavropolsky/tg-track/internal/domain/admin/errors"
	pkgerrors "github.com/stavropolsky/tg-track/pkg/errors"
)

// failureReplies are the texts shown when a command fails
type failureReplies struct {
	usage      string
	conflict   string
	notFound   string
	permission string
	failure    string
}

const (
	genericFailure = "Произошла ошибка при обработке команды. Попробуйте позже."
	unavailable    = "Сервис временно недоступен. Попробуйте позже."
	notAdmin       = "Эта команда доступна только администраторам."
)

var replies = map[string]failureReplies{
	consts.CommandAddChannel.Name: {
		usage:      "Не указана ссылка на канал.",
		conflict:   "Канал уже был добавлен ранее.",
		notFound:   "Не удалось добавить канал. Проверьте ссылку и убедитесь, что вы имеете доступ к каналу.",
		permission: "Не удалось добавить канал, так как вы не являетесь участником этого приватного канала.",
		failure:    "Не удалось добавить канал. Проверьте ссылку и убедитесь, что вы имеете доступ к каналу.",
	},
	consts.CommandRemoveChannel.Name: {
		usage:    "Пожалуйста, предоставьте ссылку или имя канала для удаления.",
		notFound: "Не удалось удалить канал. Возможно, он не был добавлен ранее.",
	},
	consts.CommandAddKeyword.Name: {
		usage:    "Не указано ключевое слово.",
		conflict: "Ключевое слово уже было добавлено ранее.",
	},
	consts.CommandRemoveKeyword.Name: {
		usage:    "Пожалуйста, предоставьте ключевое слово для удаления.",
		notFound: "Ключевое слово не найдено в базе данных. Удаление не требуется.",
	},
	consts.CommandAddToBlacklist.Name: {
		usage:    "Не указан идентификатор пользователя (ID или имя пользователя).",
		conflict: "Пользователь уже находится в черном списке.",
		notFound: "Не удалось найти пользователя с указанным именем или ID.",
	},
	consts.CommandRemoveFromBlacklist.Name: {
		usage:    "Не указано имя пользователя или его ID.",
		notFound: "Не удалось удалить пользователя из черного списка. Возможно, он не был добавлен ранее.",
	},
}

// ErrorReply converts a command error into the single reply sent to the operator
func ErrorReply(command string, err error) string {
	r := replies[command]

	if errors.Is(err, adminerrors.ErrMissingArgument) && r.usage != "" {
		return r.usage
	}
	if errors.Is(err, adminerrors.ErrNotAdmin) {
		return notAdmin
	}
	// the joined cause must not pick the reply
	if errors.Is(err, adminerrors.ErrDestinationUnavailable) {
		return unavailable
	}

	var reply string
	switch pkgerrors.TypeOf(err) {
	case pkgerrors.ErrorTypeValidation:
		var verr *pkgerrors.ValidationError
		if errors.As(err, &verr) {
			reply = verr.Error()
		}
	case pkgerrors.ErrorTypeConflict:
		reply = r.conflict
	case pkgerrors.ErrorTypeNotFound:
		reply = r.notFound
	case pkgerrors.ErrorTypePermission:
		reply = r.permission
	case pkgerrors.ErrorTypeServiceUnavailable:
		reply = unavailable
	}

	if reply == "" {
		reply = r.failure
	}
	if reply == "" {
		reply = genericFailure
	}
	return reply
}

// ResultLabel classifies a command outcome for metrics
func ResultLabel(err error) string {
	if err == nil {
		return "success"
	}
	return pkgerrors.TypeOf(err).String()
}
