// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package locale

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message/catalog"
)

// Message keys. Keys are also the fallback text when a translation is missing.
const (
	AppTagline = "app.tagline"
	Loading    = "common.loading"
	LangName   = "common.language_name"

	LandingTitle    = "landing.title"
	LandingSubtitle = "landing.subtitle"
	LandingStart    = "landing.start"
	LandingLogin    = "landing.login"
	LandingSignup   = "landing.signup"
	LandingHint     = "landing.hint"
	LandingModels   = "landing.models"

	NavChat    = "nav.chat"
	NavHistory = "nav.history"
	NavProfile = "nav.profile"

	LoginTitle     = "login.title"
	LoginEmail     = "login.email"
	LoginPassword  = "login.password"
	LoginSubmit    = "login.submit"
	LoginNoAccount = "login.no_account"
	LoginFailed    = "login.failed"
	LoginWelcome   = "login.welcome"
	LoginRequired  = "login.required"
	LoginHelp      = "login.help"

	SignupTitle       = "signup.title"
	SignupSubmit      = "signup.submit"
	SignupLanguage    = "signup.language"
	SignupHaveAccount = "signup.have_account"
	SignupFailed      = "signup.failed"
	SignupWelcome     = "signup.welcome"

	ChatPlaceholder = "chat.placeholder"
	ChatEmpty       = "chat.empty"
	ChatThinking    = "chat.thinking"
	ChatModel       = "chat.model"
	ChatNew         = "chat.new"
	ChatSendFailed  = "chat.send_failed"
	ChatHelp        = "chat.help"
	ChatYou         = "chat.you"
	ChatLoadFailed  = "chat.load_failed"
	ChatNotFound    = "chat.not_found"

	HistoryTitle        = "history.title"
	HistorySearch       = "history.search"
	HistoryEmpty        = "history.empty"
	HistoryNoMatch      = "history.no_match"
	HistoryDeleted      = "history.deleted"
	HistoryDeleteFailed = "history.delete_failed"
	HistoryHelp         = "history.help"
	HistoryUpdated      = "history.updated"
	HistoryConfirm      = "history.confirm"

	ProfileTitle         = "profile.title"
	ProfileMemberSince   = "profile.member_since"
	ProfileTotalChats    = "profile.total_chats"
	ProfileMessages      = "profile.messages"
	ProfileFavoriteModel = "profile.favorite_model"
	ProfileSummary       = "profile.summary"
	ProfileNoSummary     = "profile.no_summary"
	ProfileLogout        = "profile.logout"
	ProfileHelp          = "profile.help"

	NotFoundTitle   = "notfound.title"
	NotFoundMessage = "notfound.message"
	NotFoundHome    = "notfound.home"

	SessionExpired = "session.expired"
	LoggedOut      = "session.logged_out"
)

// translation is one catalog entry in both supported languages.
type translation struct {
	en string
	ar string
}

var translations = map[string]translation{
	AppTagline: {"One chat, three models.", "محادثة واحدة، ثلاثة نماذج."},
	Loading:    {"Loading...", "جارٍ التحميل..."},
	LangName:   {"English", "العربية"},

	LandingTitle:    {"Chat with Gemini, Groq and Mistral", "تحدث مع Gemini و Groq و Mistral"},
	LandingSubtitle: {"Pick a model, ask anything, and keep every conversation.", "اختر نموذجًا، واسأل أي شيء، واحتفظ بكل محادثاتك."},
	LandingStart:    {"Start chatting", "ابدأ المحادثة"},
	LandingLogin:    {"Log in", "تسجيل الدخول"},
	LandingSignup:   {"Sign up", "إنشاء حساب"},
	LandingHint:     {"enter: continue  l: log in  s: sign up  g: language  q: quit", "enter: متابعة  l: دخول  s: تسجيل  g: اللغة  q: خروج"},
	LandingModels:   {"Available models", "النماذج المتاحة"},

	NavChat:    {"Chat", "المحادثة"},
	NavHistory: {"History", "السجل"},
	NavProfile: {"Profile", "الملف"},

	LoginTitle:     {"Welcome back", "مرحبًا بعودتك"},
	LoginEmail:     {"Email", "البريد الإلكتروني"},
	LoginPassword:  {"Password", "كلمة المرور"},
	LoginSubmit:    {"Log in", "تسجيل الدخول"},
	LoginNoAccount: {"No account yet? ctrl+s to sign up", "ليس لديك حساب؟ ctrl+s للتسجيل"},
	LoginFailed:    {"Login failed: %s", "فشل تسجيل الدخول: %s"},
	LoginWelcome:   {"Welcome, %s!", "أهلًا، %s!"},
	LoginRequired:  {"Email and password are required", "البريد الإلكتروني وكلمة المرور مطلوبان"},
	LoginHelp:      {"tab: next field  enter: submit  ctrl+g: language  esc: back", "tab: الحقل التالي  enter: إرسال  ctrl+g: اللغة  esc: رجوع"},

	SignupTitle:       {"Create your account", "أنشئ حسابك"},
	SignupSubmit:      {"Sign up", "إنشاء حساب"},
	SignupLanguage:    {"Preferred language", "اللغة المفضلة"},
	SignupHaveAccount: {"Already have an account? ctrl+l to log in", "لديك حساب بالفعل؟ ctrl+l لتسجيل الدخول"},
	SignupFailed:      {"Signup failed: %s", "فشل إنشاء الحساب: %s"},
	SignupWelcome:     {"Account created. Welcome, %s!", "تم إنشاء الحساب. أهلًا، %s!"},

	ChatPlaceholder: {"Type a message...", "اكتب رسالة..."},
	ChatEmpty:       {"Start a conversation. Your first message creates a new chat.", "ابدأ محادثة. رسالتك الأولى تنشئ محادثة جديدة."},
	ChatThinking:    {"Thinking...", "جارٍ التفكير..."},
	ChatModel:       {"Model", "النموذج"},
	ChatNew:         {"New chat", "محادثة جديدة"},
	ChatSendFailed:  {"Failed to send message", "فشل إرسال الرسالة"},
	ChatHelp:        {"enter: send  tab: model  ctrl+n: new  ctrl+r: reload  ctrl+h: history  ctrl+p: profile", "enter: إرسال  tab: النموذج  ctrl+n: جديد  ctrl+r: تحديث  ctrl+h: السجل  ctrl+p: الملف"},
	ChatYou:         {"You", "أنت"},
	ChatLoadFailed:  {"Failed to load chat", "فشل تحميل المحادثة"},
	ChatNotFound:    {"Chat not found", "المحادثة غير موجودة"},

	HistoryTitle:        {"Chat history", "سجل المحادثات"},
	HistorySearch:       {"Search chats...", "ابحث في المحادثات..."},
	HistoryEmpty:        {"No chats yet", "لا توجد محادثات بعد"},
	HistoryNoMatch:      {"No chats match your search", "لا توجد محادثات مطابقة لبحثك"},
	HistoryDeleted:      {"Deleted successfully", "تم الحذف بنجاح"},
	HistoryDeleteFailed: {"Failed to delete chat", "فشل حذف المحادثة"},
	HistoryHelp:         {"enter: open  d: delete  /: search  ctrl+n: new chat  esc: back", "enter: فتح  d: حذف  /: بحث  ctrl+n: محادثة جديدة  esc: رجوع"},
	HistoryUpdated:      {"Updated %s", "آخر تحديث %s"},
	HistoryConfirm:      {"Delete %q? y/n", "حذف %q؟ y/n"},

	ProfileTitle:         {"Profile", "الملف الشخصي"},
	ProfileMemberSince:   {"Member since", "عضو منذ"},
	ProfileTotalChats:    {"Total chats", "إجمالي المحادثات"},
	ProfileMessages:      {"Messages exchanged", "الرسائل المتبادلة"},
	ProfileFavoriteModel: {"Favorite model", "النموذج المفضل"},
	ProfileSummary:       {"AI summary", "ملخص الذكاء الاصطناعي"},
	ProfileNoSummary: {
		"No AI summary available yet. Start chatting to generate personalized insights about your interests and preferences.",
		"لا يوجد ملخص بعد. ابدأ المحادثة للحصول على رؤى مخصصة حول اهتماماتك وتفضيلاتك.",
	},
	ProfileLogout: {"Log out", "تسجيل الخروج"},
	ProfileHelp:   {"r: refresh  o: log out  g: language  esc: back", "r: تحديث  o: خروج  g: اللغة  esc: رجوع"},

	NotFoundTitle:   {"404", "404"},
	NotFoundMessage: {"Oops! Page not found", "عذرًا! الصفحة غير موجودة"},
	NotFoundHome:    {"Press enter to return home", "اضغط enter للعودة إلى الرئيسية"},

	SessionExpired: {"Your session has expired. Please log in again.", "انتهت جلستك. يرجى تسجيل الدخول مرة أخرى."},
	LoggedOut:      {"Logged out", "تم تسجيل الخروج"},
}

// newCatalog builds the message catalog for every supported language.
func newCatalog() (*catalog.Builder, error) {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, tr := range translations {
		if err := b.SetString(language.English, key, tr.en); err != nil {
			return nil, err
		}
		if err := b.SetString(language.Arabic, key, tr.ar); err != nil {
			return nil, err
		}
	}
	return b, nil
}
