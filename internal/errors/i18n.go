package errors

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var english = map[Code]string{
	CodeVersionMismatch: "The board changed before your move arrived. It has been refreshed, try again.",
	CodeNotYourTurn:     "It is not your turn.",
	CodeRoomFull:        "This room already has two players.",
	CodeRoomNotJoinable: "This room can no longer be joined.",
	CodeRoomNotActive:   "This match is not in progress.",
	CodeRoomNotFound:    "Room not found.",
	CodeInvalidRoomID:   "The room link is invalid.",
	CodeInvalidMove:     "That move is not allowed right now.",
	CodeInvalidRequest:  "The request was malformed.",
	CodeBusy:            "Still sending your previous move.",
	CodeMoveFailed:      "Move failed. The board has been refreshed.",
	CodeJoinFailed:      "Could not join the room.",
	CodeCreateFailed:    "Could not create a room.",
	CodeUnknown:         "Something went wrong.",
}

var korean = map[Code]string{
	CodeVersionMismatch: "상대의 진행으로 보드가 갱신되었습니다. 다시 시도해 주세요.",
	CodeNotYourTurn:     "지금은 당신의 차례가 아닙니다.",
	CodeRoomFull:        "이미 두 명이 참가한 방입니다.",
	CodeRoomNotJoinable: "참가할 수 없는 방입니다.",
	CodeRoomNotActive:   "진행 중인 게임이 아닙니다.",
	CodeRoomNotFound:    "방을 찾을 수 없습니다.",
	CodeInvalidRoomID:   "잘못된 방 링크입니다.",
	CodeInvalidMove:     "지금은 할 수 없는 동작입니다.",
	CodeInvalidRequest:  "잘못된 요청입니다.",
	CodeBusy:            "이전 동작을 전송하는 중입니다.",
	CodeMoveFailed:      "동작에 실패했습니다. 보드를 새로 고쳤습니다.",
	CodeJoinFailed:      "방에 참가하지 못했습니다.",
	CodeCreateFailed:    "방을 만들지 못했습니다.",
	CodeUnknown:         "문제가 발생했습니다.",
}

var supported = []language.Tag{language.English, language.Korean}

var matcher = language.NewMatcher(supported)

func init() {
	for tag, messages := range map[language.Tag]map[Code]string{
		language.English: english,
		language.Korean:  korean,
	} {
		for code, msg := range messages {
			if err := message.SetString(tag, string(code), msg); err != nil {
				panic(err)
			}
		}
	}
}

// Message returns the user-facing text for code in the closest supported
// language.
func Message(lang language.Tag, code Code) string {
	_, index, _ := matcher.Match(lang)
	if _, ok := english[code]; !ok {
		code = CodeUnknown
	}
	return message.NewPrinter(supported[index]).Sprintf(string(code))
}

// UserMessage classifies err and renders it. Errors without a known code
// use fallback, the generic message for the failed operation.
func UserMessage(lang language.Tag, err error, fallback Code) string {
	code := CodeOf(err)
	if code == CodeUnknown {
		code = fallback
	}
	return Message(lang, code)
}
