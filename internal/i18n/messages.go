package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	en := language.English
	message.SetString(en, KeyGreeting, "Dear %s")
	message.SetString(en, KeyGuestFallback, "Guest")
	message.SetString(en, KeyAccepted, "Thank you for accepting our invitation! We can't wait to celebrate with you.")
	message.SetString(en, KeyDeclined, "We're sorry you can't make it. Thank you for letting us know.")
	message.SetString(en, KeyThanks, "Your response has been recorded.")
	message.SetString(en, KeyReplyAccepted, "🎉 Wonderful! We're so excited to celebrate with you!\n\nWe've confirmed your attendance for the wedding of %s & %s on %s.\n\nSee you there! 💕")
	message.SetString(en, KeyReplyDeclined, "Thank you for letting us know. We're sorry you won't be able to join us for the wedding of %s & %s.\n\nWe'll miss you! 💕")
	message.SetString(en, KeyInvitationFooter, "Reply with:\n✅ *YES* to accept\n❌ *NO* to decline")
	message.SetString(en, KeyInvitationVenue, "📍 Location: %s")

	hi := language.Hindi
	message.SetString(hi, KeyGreeting, "प्रिय %s")
	message.SetString(hi, KeyGuestFallback, "अतिथि")
	message.SetString(hi, KeyAccepted, "हमारा निमंत्रण स्वीकार करने के लिए धन्यवाद! हम आपके साथ जश्न मनाने के लिए उत्सुक हैं।")
	message.SetString(hi, KeyDeclined, "हमें खेद है कि आप नहीं आ पाएंगे। हमें बताने के लिए धन्यवाद।")
	message.SetString(hi, KeyThanks, "आपका उत्तर दर्ज कर लिया गया है।")
	message.SetString(hi, KeyReplyAccepted, "🎉 बहुत बढ़िया! हम आपके साथ जश्न मनाने के लिए बहुत उत्साहित हैं!\n\n%s और %s के विवाह (%s) में आपकी उपस्थिति की पुष्टि हो गई है।\n\nवहाँ मिलते हैं! 💕")
	message.SetString(hi, KeyReplyDeclined, "हमें बताने के लिए धन्यवाद। हमें खेद है कि आप %s और %s के विवाह में शामिल नहीं हो पाएंगे।\n\nहम आपको याद करेंगे! 💕")
	message.SetString(hi, KeyInvitationVenue, "📍 स्थान: %s")
	message.SetString(hi, KeyInvitationFooter, "उत्तर दें:\n✅ *YES* स्वीकार करने के लिए\n❌ *NO* अस्वीकार करने के लिए")
}
