package bot

// User-facing texts. The audience of the shop is Russian-speaking.
const (
	textMenuHeader  = "Выберите товар по кнопке ниже."
	textNoProducts  = "Товары не найдены."
	textCatalogFail = "Не удалось получить список товаров. Попробуйте позже."

	textCartTitle    = "Ваша корзина:"
	textCartEmpty    = "Ваша корзина пуста."
	textCartFail     = "Не удалось обновить корзину. Попробуйте позже."
	textCartLoadFail = "Не удалось получить корзину. Попробуйте позже."
	textBadIndex     = "Некорректный номер позиции."
	textNoPosition   = "Позиция не найдена."

	textProductGone = "Товар не найден."
	textProductFail = "Не удалось получить товар. Попробуйте позже."
	textNoDescr     = "Нет описания."
	textAddedToCart = "Товар добавлен в корзину."
	textAddCartFail = "Не удалось добавить в корзину. Попробуйте позже."

	textEmailPrompt  = "Введите вашу почту для оформления:"
	textEmailInvalid = "Это не похоже на почту. Попробуйте ещё раз."
	textEmailFail    = "Не удалось сохранить почту. Попробуйте позже."

	textCancelled  = "Состояние сброшено. Наберите /start чтобы начать заново."
	textUseButtons = "Используйте кнопки или команду /start, чтобы выбрать товар."

	btnMyCart  = "🧺 Моя корзина"
	btnAddCart = "Добавить в корзину"
	btnBack    = "← Назад к списку"
	btnPay     = "Оплатить"
	btnToMenu  = "В меню"
)

const (
	textThanksFmt    = "Спасибо! Ваша почта: %s. Мы свяжемся для оплаты."
	textChoseFmt     = "Вы выбрали: %s"
	btnRemoveFmt     = "Убрать %d"
	fallbackTitleFmt = "Товар #%d"
)
