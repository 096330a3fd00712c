package api

const indexHTML = `<!DOCTYPE html>
<html lang="ko">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>아마존 리뷰 분석기</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body { font-family: -apple-system, 'Apple SD Gothic Neo', system-ui, sans-serif; background: #f8fafc; color: #1e293b; min-height: 100vh; padding: 2rem; }
        .container { max-width: 860px; margin: 0 auto; }
        h1 { font-size: 1.6rem; margin-bottom: 1.5rem; }
        .panel { background: #fff; border: 1px solid #e2e8f0; border-radius: 12px; padding: 1.5rem; margin-bottom: 1.5rem; }
        .row { display: flex; gap: 0.75rem; }
        input[type=text] { flex: 1; padding: 0.7rem 1rem; border: 1px solid #cbd5e1; border-radius: 8px; font-size: 0.95rem; }
        button { padding: 0.7rem 1.4rem; border: 0; border-radius: 8px; background: #2563eb; color: #fff; font-weight: 600; cursor: pointer; }
        button:disabled { background: #94a3b8; cursor: wait; }
        .error { color: #dc2626; margin-top: 0.75rem; display: none; }
        .stats { display: flex; gap: 1rem; margin: 1rem 0; }
        .stat { flex: 1; text-align: center; padding: 1rem; border-radius: 8px; background: #f1f5f9; }
        .stat .num { font-size: 1.5rem; font-weight: 700; }
        .review { border-top: 1px solid #e2e8f0; padding: 0.75rem 0; font-size: 0.9rem; }
        .tag { display: inline-block; padding: 0.1rem 0.5rem; border-radius: 9999px; font-size: 0.75rem; margin-right: 0.5rem; }
        .tag.positive { background: #dcfce7; color: #166534; }
        .tag.negative { background: #fee2e2; color: #991b1b; }
        .tag.neutral { background: #f1f5f9; color: #475569; }
        #summary { white-space: pre-wrap; line-height: 1.6; }
        .hidden { display: none; }
    </style>
</head>
<body>
    <div class="container">
        <h1>아마존 리뷰 분석기</h1>
        <div class="panel">
            <div class="row">
                <input type="text" id="productInput" placeholder="아마존 상품 URL을 입력하세요 (예: https://www.amazon.com/dp/B08N5WRWNW)">
                <button id="getInfoBtn">상품 조회</button>
            </div>
            <div class="error" id="error"></div>
        </div>
        <div class="panel hidden" id="productPanel">
            <h2 id="productName"></h2>
            <div class="stats">
                <div class="stat"><div class="num" id="totalReviews">0</div><div>전체 리뷰</div></div>
                <div class="stat"><div class="num" id="avgRating">0</div><div>평균 평점</div></div>
                <div class="stat"><div class="num" id="positiveRatio">0%</div><div>긍정 비중</div></div>
                <div class="stat"><div class="num" id="negativeRatio">0%</div><div>부정 비중</div></div>
            </div>
            <button id="analyzeBtn">리뷰 분석</button>
        </div>
        <div class="panel hidden" id="resultPanel">
            <div class="stats">
                <div class="stat"><div class="num" id="posCount">0</div><div>긍정</div></div>
                <div class="stat"><div class="num" id="negCount">0</div><div>부정</div></div>
                <div class="stat"><div class="num" id="neuCount">0</div><div>중립</div></div>
            </div>
            <p id="summary"></p>
            <div id="reviews"></div>
            <button id="exportBtn" style="margin-top:1rem">CSV 내보내기</button>
        </div>
    </div>
    <script>
        let productId = null;
        let reviews = [];
        const $ = id => document.getElementById(id);

        function showError(msg) { $('error').textContent = msg; $('error').style.display = 'block'; }
        function hideError() { $('error').style.display = 'none'; }

        async function post(path, body) {
            const r = await fetch(path, {
                method: 'POST',
                headers: { 'Content-Type': 'application/json' },
                body: JSON.stringify(body)
            });
            const data = await r.json();
            if (!r.ok) throw new Error(data.error || '요청 처리 중 오류가 발생했습니다.');
            return data;
        }

        $('getInfoBtn').addEventListener('click', async () => {
            hideError();
            $('getInfoBtn').disabled = true;
            try {
                const data = await post('/get-product-info', { product_input: $('productInput').value.trim() });
                productId = data.product_id;
                const info = data.product_info;
                $('productName').textContent = info.product_name || data.product_id;
                $('totalReviews').textContent = info.total_reviews.toLocaleString();
                $('avgRating').textContent = info.avg_rating;
                $('positiveRatio').textContent = info.positive_ratio + '%';
                $('negativeRatio').textContent = info.negative_ratio + '%';
                $('productPanel').classList.remove('hidden');
            } catch (e) { showError(e.message); }
            $('getInfoBtn').disabled = false;
        });

        $('analyzeBtn').addEventListener('click', async () => {
            hideError();
            $('analyzeBtn').disabled = true;
            try {
                const data = await post('/analyze-reviews', { product_id: productId });
                reviews = data.reviews;
                $('posCount').textContent = data.sentiment_stats.positive;
                $('negCount').textContent = data.sentiment_stats.negative;
                $('neuCount').textContent = data.sentiment_stats.neutral;
                $('summary').textContent = data.summary;
                $('reviews').innerHTML = reviews.map(r =>
                    '<div class="review"><span class="tag ' + r.sentiment + '">' + r.sentiment + '</span>★' + r.rating + ' ' + r.text + '</div>'
                ).join('');
                $('resultPanel').classList.remove('hidden');
            } catch (e) { showError(e.message); }
            $('analyzeBtn').disabled = false;
        });

        $('exportBtn').addEventListener('click', async () => {
            hideError();
            try {
                const data = await post('/export-csv', { reviews: reviews });
                const blob = new Blob(['\ufeff' + data.csv_data], { type: 'text/csv;charset=utf-8' });
                const a = document.createElement('a');
                a.href = URL.createObjectURL(blob);
                a.download = data.filename;
                a.click();
                URL.revokeObjectURL(a.href);
            } catch (e) { showError(e.message); }
        });

        $('productInput').addEventListener('keypress', e => { if (e.key === 'Enter') $('getInfoBtn').click(); });
    </script>
</body>
</html>`
